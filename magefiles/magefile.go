//go:build mage

// Package main provides build targets for equitysite using Mage.
//
// Usage:
//
//	mage build     Compile the equitysite binary to bin/
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage lint      Run go vet and golangci-lint
//	mage run       Build and serve on :8080
//	mage render    Write a static index.html to dist/
//	mage clean     Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "equitysite"
	binaryDir  = "bin"
	distDir    = "dist"
	cmdDir     = "./cmd/equitysite"
)

var binaryPath = filepath.Join(binaryDir, binaryName)

// Build compiles the equitysite binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", binaryPath, cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all tests with the race detector. Session timers and the page
// lock are exercised concurrently in internal/server.
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Run builds and serves the site with the default configuration.
func Run() error {
	mg.Deps(Build)
	return sh.RunV(binaryPath, "serve")
}

// Render writes the full page to dist/index.html.
func Render() error {
	mg.Deps(Build)
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binaryPath, "render", "--output", filepath.Join(distDir, "index.html"))
}

// Clean removes build artifacts.
func Clean() error {
	for _, dir := range []string{binaryDir, distDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return sh.RunV("go", "clean")
}
