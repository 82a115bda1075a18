package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, envKey string) (*Provider, string) {
	t.Helper()

	keyPath := filepath.Join(t.TempDir(), "keys", "youtube.key")
	p, err := New(envKey, keyPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := p.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})
	return p, keyPath
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNew_EnvOnly(t *testing.T) {
	p, err := New("  env-key  ", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Current() != "env-key" {
		t.Errorf("Current() = %q, want env-key", p.Current())
	}
	if !p.Valid() {
		t.Error("Valid() = false with env key")
	}
	if p.Source() != SourceEnv {
		t.Errorf("Source() = %q, want env", p.Source())
	}

	ev := <-p.Events()
	if ev.Type != EventLoaded {
		t.Errorf("first event = %v, want EventLoaded", ev.Type)
	}
}

func TestNew_NoKey(t *testing.T) {
	p, _ := newTestProvider(t, "")

	if p.Valid() {
		t.Error("Valid() = true without any key")
	}
	if p.Source() != SourceNone {
		t.Errorf("Source() = %q, want none", p.Source())
	}
}

func TestKeyFileTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "youtube.key")
	if err := os.WriteFile(keyPath, []byte("YOUTUBE_API_KEY=file-key\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	p, err := New("env-key", keyPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.Current() != "file-key" || p.Source() != SourceFile {
		t.Errorf("Current() = %q from %q, want file-key from file", p.Current(), p.Source())
	}
}

func TestSave(t *testing.T) {
	p, keyPath := newTestProvider(t, "env-key")

	if err := p.Save("saved-key"); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if p.Current() != "saved-key" {
		t.Errorf("Current() = %q, want saved-key", p.Current())
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "YOUTUBE_API_KEY=saved-key\n" {
		t.Errorf("key file = %q", data)
	}
}

func TestSave_NoKeyFile(t *testing.T) {
	p, err := New("env-key", "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = p.Close() }()

	if err := p.Save("x"); err == nil {
		t.Error("Save() without a key file should fail")
	}
}

func TestWatcher_ReloadsExternalChanges(t *testing.T) {
	p, keyPath := newTestProvider(t, "env-key")
	<-p.Events()

	if err := os.WriteFile(keyPath, []byte("external-key\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	waitFor(t, func() bool { return p.Current() == "external-key" })

	select {
	case ev := <-p.Events():
		if ev.Type != EventChanged || ev.Source != SourceFile {
			t.Errorf("event = %+v, want EventChanged from file", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}

	if err := os.Remove(keyPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	waitFor(t, func() bool { return p.Current() == "env-key" })
}

func TestClose_Idempotent(t *testing.T) {
	p, _ := newTestProvider(t, "")

	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}
