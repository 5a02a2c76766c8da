package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates New File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "1.md")

		if err := writeFileAtomic(filename, []byte("hello"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(got) != "hello" {
			t.Errorf("expected 'hello', got %q", got)
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "1.md")
		if err := os.WriteFile(filename, []byte("initial"), 0644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if err := writeFileAtomic(filename, []byte("overwritten"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		got, _ := os.ReadFile(filename)
		if string(got) != "overwritten" {
			t.Errorf("expected 'overwritten', got %q", got)
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		dir := t.TempDir()
		if err := writeFileAtomic(filepath.Join(dir, "1.md"), []byte("x"), 0644); err != nil {
			t.Fatalf("writeFileAtomic failed: %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if isTempFile(e.Name()) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 file, got %d", len(entries))
		}
	})

	t.Run("Fails On Missing Directory", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "missing", "1.md")
		if err := writeFileAtomic(filename, []byte("x"), 0644); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
