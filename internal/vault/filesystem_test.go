package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates backup directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "backups")

		v, err := NewFileSystemVault(root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(root); err != nil {
			t.Errorf("backup directory not created: %v", err)
		}
		if v.Root() != root {
			t.Errorf("Root() = %q, want %q", v.Root(), root)
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		if _, err := NewFileSystemVault(t.TempDir()); err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})
}

func TestFileSystemVault_PutBackup_WritesFile(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	content := `{"projects":[]}`
	if err := v.PutBackup("p_backup_20240115_103000.json", strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("PutBackup() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "p_backup_20240115_103000.json"))
	if err != nil {
		t.Fatalf("backup file not written: %v", err)
	}
	if string(got) != content {
		t.Errorf("backup content = %q, want %q", got, content)
	}
}

func TestFileSystemVault_SizeMismatchLeavesNoFile(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := v.PutBackup("p_backup_20240115_103000.json", strings.NewReader("hello"), 100); err == nil {
		t.Fatal("PutBackup() expected size mismatch error")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("backup directory has %d entries, want 0", len(entries))
	}
}

func TestFileSystemVault_ListBackups_SkipsTempAndDirs(t *testing.T) {
	root := t.TempDir()
	v, err := NewFileSystemVault(root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, ".tmp-123"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "p_backup_dir"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "p_backup_20240115_103000.json"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := v.ListBackups("")
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(got) != 1 || got[0] != "p_backup_20240115_103000.json" {
		t.Errorf("ListBackups() = %v, want [p_backup_20240115_103000.json]", got)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		v, err := NewFileSystemVault(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := v.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("directory removed", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "backups")
		v, err := NewFileSystemVault(root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := os.RemoveAll(root); err != nil {
			t.Fatal(err)
		}
		if err := v.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() expected error for missing directory")
		}
	})
}
