package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDiskTextCache_PutGet(t *testing.T) {
	cache, err := NewDiskTextCache(filepath.Join(t.TempDir(), "texts"))
	if err != nil {
		t.Fatalf("NewDiskTextCache failed: %v", err)
	}
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "processed_text_example.com_v")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Fatal("expected miss before Put")
	}

	if err := cache.Put(ctx, "processed_text_example.com_v", "# Title\n\nBody"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := cache.Get(ctx, "processed_text_example.com_v")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || got != "# Title\n\nBody" {
		t.Errorf("Get() = (%q, %v), want stored text", got, ok)
	}
}

func TestDiskTextCache_EmptyFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDiskTextCache(dir)
	if err != nil {
		t.Fatalf("NewDiskTextCache failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "empty.md"), nil, 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, ok, err := cache.Get(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("empty file should be a miss")
	}
}

func TestDiskTextCache_ConcurrentPut(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDiskTextCache(dir)
	if err != nil {
		t.Fatalf("NewDiskTextCache failed: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := cache.Put(ctx, "shared", fmt.Sprintf("writer-%d", i)); err != nil {
				t.Errorf("Put failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, ok, err := cache.Get(ctx, "shared")
	if err != nil || !ok {
		t.Fatalf("Get() = (%q, %v, %v), want hit", got, ok, err)
	}
	if len(got) < len("writer-0") {
		t.Errorf("Get() = %q, want a complete value from one writer", got)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}
