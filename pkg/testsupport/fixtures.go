package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/goliatone/go-equitysite/pkg/contact"
	"github.com/goliatone/go-equitysite/pkg/content"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// FakeClock returns a fake clock anchored at a fixed instant so timestamps
// in assertions are stable.
func FakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
}

// Eventually polls cond until it holds or timeout elapses. Fake clock
// callbacks may run on their own goroutine, so assertions on their effects
// go through here.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %s: %s", timeout, msg)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// ValidFormData returns a consultation request that passes validation.
func ValidFormData() contact.FormData {
	data := contact.DefaultFormData()
	data.Name = "Ada Lovelace"
	data.Email = "ada@example.org"
	data.Organization = "County Health Department"
	data.Service = contact.ServicePolicy
	data.Urgency = contact.UrgencyUrgent
	data.Message = "We need help reviewing our community outreach policy."
	return data
}

// Site returns the built-in site content, failing the test if it does not
// validate.
func Site(t *testing.T) content.Site {
	t.Helper()

	site := content.Default()
	if err := site.Validate(); err != nil {
		t.Fatalf("default content invalid: %v", err)
	}
	return site
}

// WriteFile writes data under dir and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
