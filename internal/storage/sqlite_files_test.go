package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestHasLocalDBFilesReturnsFalseWhenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if exists {
		t.Fatal("hasLocalDBFiles() = true, want false")
	}
}

func TestHasLocalDBFilesDetectsPrimaryDB(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	if err := os.WriteFile(path, []byte("db"), 0o600); err != nil {
		t.Fatalf("write db file: %v", err)
	}

	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("hasLocalDBFiles() = false, want true")
	}
}

func TestHasLocalDBFilesDetectsWalOrShm(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	if err := os.WriteFile(path+"-wal", []byte("wal"), 0o600); err != nil {
		t.Fatalf("write wal file: %v", err)
	}

	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("hasLocalDBFiles() = false, want true")
	}
}

func TestResetLocalDBFilesRemovesAllFiles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.db")
	for _, p := range localDBFiles(path) {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	if err := resetLocalDBFiles(path); err != nil {
		t.Fatalf("resetLocalDBFiles() unexpected error: %v", err)
	}
	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if exists {
		t.Fatal("hasLocalDBFiles() = true after reset, want false")
	}
	if err := resetLocalDBFiles(path); err != nil {
		t.Fatalf("resetLocalDBFiles() on missing files: %v", err)
	}
}

func TestWipeRemovesOpenedLedger(t *testing.T) {
	t.Parallel()

	cfg := Config{Mode: ModePlain, Path: filepath.Join(t.TempDir(), "ledger.db")}
	db, err := OpenWith(context.Background(), cfg)
	if err != nil {
		t.Fatalf("OpenWith() unexpected error: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	if err := Wipe(cfg); err != nil {
		t.Fatalf("Wipe() unexpected error: %v", err)
	}
	if exists, err := hasLocalDBFiles(cfg.Path); err != nil || exists {
		t.Fatalf("hasLocalDBFiles() after Wipe = %v, %v, want false", exists, err)
	}
	if err := Wipe(Config{}); err == nil {
		t.Fatal("Wipe(empty path) error = nil, want non-nil")
	}
}
