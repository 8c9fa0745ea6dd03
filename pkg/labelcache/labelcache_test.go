package labelcache

import (
	"encoding/gob"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dayscore-dev/dayscore/pkg/category"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStoreAndLookup(t *testing.T) {
	s, err := Open(t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Store("Piano ", category.Peripheral)
	got, ok := s.Lookup("piano")
	if !ok || got != category.Peripheral {
		t.Errorf("Lookup(piano) = %v, %v", got, ok)
	}
	if _, ok := s.Lookup("unknown"); ok {
		t.Error("Lookup returned a hit for an unknown label")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Store("smithing", category.Core)
	s.Store("tv", category.Waste)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, ok := reopened.Lookup("smithing"); !ok || got != category.Core {
		t.Errorf("Lookup after reopen = %v, %v", got, ok)
	}
	if reopened.Len() != 2 {
		t.Errorf("Len = %d, want 2", reopened.Len())
	}
}

func TestInvalidEntriesDroppedOnLoad(t *testing.T) {
	dir := t.TempDir()
	file, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	entries := map[string]string{
		"piano":   "peripheral",
		"mystery": "not-a-category",
	}
	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.Lookup("mystery"); ok {
		t.Error("invalid entry survived load")
	}
	if got, ok := s.Lookup("piano"); !ok || got != category.Peripheral {
		t.Errorf("valid entry lost: %v, %v", got, ok)
	}
}

func TestCorruptFileDoesNotFailOpen(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("not gob"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Open failed on corrupt file: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
