package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFilesystem_WriteFile(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		f := NewOSFilesystem()
		path := filepath.Join(t.TempDir(), "a", "b", "data.json")

		if err := f.WriteFile(path, []byte("hello")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "hello" {
			t.Errorf("content = %q, want %q", got, "hello")
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %v, want 0644", info.Mode().Perm())
		}
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		f := NewOSFilesystem()
		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")

		if err := f.WriteFile(path, []byte("old")); err != nil {
			t.Fatal(err)
		}
		if err := f.WriteFile(path, []byte("new")); err != nil {
			t.Fatal(err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			t.Errorf("directory entries = %v, want only data.json", names)
		}
	})
}

func TestOSFilesystem_ReadFile_Missing(t *testing.T) {
	f := NewOSFilesystem()
	_, err := f.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want ErrNotExist", err)
	}
}

func TestOSFilesystem_Exists(t *testing.T) {
	f := NewOSFilesystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	exists, err := f.Exists(path)
	if err != nil || exists {
		t.Errorf("Exists() before write = %v, %v, want false, nil", exists, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	exists, err = f.Exists(path)
	if err != nil || !exists {
		t.Errorf("Exists() after write = %v, %v, want true, nil", exists, err)
	}
}

func TestOSFilesystem_Rename(t *testing.T) {
	f := NewOSFilesystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "data.json")
	dst := src + ".corrupt"
	if err := os.WriteFile(src, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := f.Rename(src, dst); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists")
	}
	if got, _ := os.ReadFile(dst); string(got) != "{" {
		t.Errorf("destination = %q, want %q", got, "{")
	}
}
