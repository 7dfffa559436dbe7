package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestHintsSuppressedWithoutTTY(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stderr")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()

	u := New(f)
	u.Hintf("visit %s", "https://example.com")
	u.Noticef("done")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected no output without a TTY, got %q", data)
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	u := New(os.Stderr)
	ctx := WithUI(context.Background(), u)

	if got := FromContext(ctx); got != u {
		t.Fatalf("FromContext = %v, want %v", got, u)
	}

	// A missing UI is nil, and the print methods must tolerate that.
	missing := FromContext(context.Background())
	if missing != nil {
		t.Fatalf("FromContext on empty context = %v, want nil", missing)
	}
	missing.Hintf("ignored")
	missing.Noticef("ignored")
}
