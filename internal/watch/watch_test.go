package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Ledger.cdz")
	if err := os.WriteFile(file, []byte("module Ledger"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{file}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := make(chan struct{}, 1)
	go w.Run(ctx, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
		cancel()
	})

	// Give the watcher a moment to register, then touch the file.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(file, []byte("module Ledger // edited"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("watcher did not fire on a write to a watched file")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "Ledger.cdz")
	other := filepath.Join(dir, "scratch.txt")
	for _, f := range []string{watched, other} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New([]string{watched}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	fired := make(chan struct{}, 1)
	go w.Run(ctx, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("y"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("watcher fired for a file outside the watched set")
	case <-ctx.Done():
	}
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "Ledger.cdz")}, 0)
	if err == nil {
		t.Error("expected an error for a nonexistent directory")
	}
}
