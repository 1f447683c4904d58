package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-equitysite/internal/sqlite"
	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	flagJSON = false
	renderFragment, renderFormat, renderWidth, renderMenuOpen, renderDropdown = "", "html", 0, false, ""
	if f := rootCmd.PersistentFlags().Lookup("templates"); f != nil {
		require.NoError(t, f.Value.Set(""))
		f.Changed = false
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "equitysite v")
}

func TestNavCommand(t *testing.T) {
	out, err := execute(t, "nav")
	require.NoError(t, err)
	assert.Contains(t, out, "About Us (about)\n  Our Story (story) -> #about-story")
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", "--fragment", "header", "--vw", "375", "--menu-open")
	require.NoError(t, err)
	assert.Contains(t, out, `data-mode="mobile"`)
	assert.Contains(t, out, `class="nav open"`)

	out, err = execute(t, "render", "--format", "json", "--open", "about")
	require.NoError(t, err)
	assert.Contains(t, out, `"mode": "desktop"`)

	_, err = execute(t, "render", "--fragment", "footer")
	assert.Error(t, err)
	_, err = execute(t, "render", "--open", "home")
	assert.Error(t, err)
}

func TestRenderCommand_TemplatesOverride(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "partials/header.tpl", []byte(`<header id="custom-header">{{ header.mode }}</header>`))

	out, err := execute(t, "render", "--fragment", "header", "--templates", dir)
	require.NoError(t, err)
	assert.Equal(t, `<header id="custom-header">desktop</header>`, out)

	out, err = execute(t, "render", "--fragment", "header")
	require.NoError(t, err)
	assert.Contains(t, out, `<header id="site-header"`)

	_, err = execute(t, "render", "--templates", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestSubmissionsCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "subs.db")
	store, err := sqlite.Open(db)
	require.NoError(t, err)
	form := contact.NewForm(contact.WithSink(store), contact.WithClock(testsupport.FakeClock()))
	data := testsupport.ValidFormData()
	for _, field := range contact.Fields() {
		require.NoError(t, form.Change(field, data.Get(field)))
	}
	_, err = form.Submit(context.Background())
	require.NoError(t, err)
	id := form.Snapshot().Last.ID
	form.Dispose()
	require.NoError(t, store.Close())

	out, err := execute(t, "submissions", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id.String()[:8])
	assert.Contains(t, out, "Ada Lovelace")

	out, err = execute(t, "submissions", "show", id.String(), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Policy Development")

	_, err = execute(t, "submissions", "show", "not-a-uuid", "--db", db)
	assert.Error(t, err)
}
