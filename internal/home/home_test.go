package home

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultsToUserHome(t *testing.T) {
	d, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !strings.HasSuffix(d.Path(), DefaultDirName) {
		t.Errorf("Path() = %q, want suffix %q", d.Path(), DefaultDirName)
	}
}

func TestEnsureExists(t *testing.T) {
	d, err := New(filepath.Join(t.TempDir(), "periscan"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(d.Path(), rendersDirName))
	if err != nil {
		t.Fatalf("renders dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("renders path is not a directory")
	}
}

func TestConfigPath(t *testing.T) {
	d, err := New("/tmp/periscan-test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := filepath.Join("/tmp/periscan-test", ConfigFileName)
	if got := d.ConfigPath(); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestRenderedPagePath(t *testing.T) {
	d, err := New("/tmp/periscan-test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := d.RenderedPagePath("doc-123", 7)
	if err != nil {
		t.Fatalf("RenderedPagePath() error = %v", err)
	}
	want := filepath.Join("/tmp/periscan-test", rendersDirName, "doc-123", "page_0007.jpg")
	if got != want {
		t.Errorf("RenderedPagePath() = %q, want %q", got, want)
	}
}

func TestRendersDir_RejectsBadIDs(t *testing.T) {
	d, err := New("/tmp/periscan-test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	bad := []string{
		"",
		"../escape",
		"a/b",
		"id with spaces",
		strings.Repeat("x", 65),
	}
	for _, id := range bad {
		if _, err := d.RendersDir(id); err == nil {
			t.Errorf("RendersDir(%q) accepted invalid id", id)
		}
	}
}

func TestCleanupRenders(t *testing.T) {
	d, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	dir, err := d.EnsureRendersDir("doc-abc")
	if err != nil {
		t.Fatalf("EnsureRendersDir() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "page_0001.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.CleanupRenders("doc-abc"); err != nil {
		t.Fatalf("CleanupRenders() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("render dir still exists after cleanup")
	}
}
