package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		MaxContentSize: 2048,
		LogDir:         "/var/log/backupctl",
		DefaultDBPath:  "/var/lib/backupctl/backups.db",
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.MaxContentSize != original.MaxContentSize {
		t.Errorf("MaxContentSize = %d, want %d", got.MaxContentSize, original.MaxContentSize)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.DefaultDBPath != original.DefaultDBPath {
		t.Errorf("DefaultDBPath = %q, want %q", got.DefaultDBPath, original.DefaultDBPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MaxContentSize != 1<<30 {
		t.Errorf("MaxContentSize = %d, want %d", cfg.MaxContentSize, int64(1<<30))
	}
	if cfg.DefaultDBPath != "./backups.db" {
		t.Errorf("DefaultDBPath = %q, want %q", cfg.DefaultDBPath, "./backups.db")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "backupctl.toml")
		cfg := Default()

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "backupctl.toml")
		cfg := Default()

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "backupctl.toml")
		cfg := Default()
		cfg.MaxContentSize = 4096

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.MaxContentSize != 4096 {
			t.Errorf("MaxContentSize = %d, want %d", got.MaxContentSize, 4096)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/backupctl.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
