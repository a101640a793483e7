package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazy_OpensOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func(context.Context) (string, error) {
		calls.Add(1)
		return "pool", nil
	})

	if _, ok := l.Loaded(); ok {
		t.Fatal("handle loaded before first Get")
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := l.Get(context.Background()); err != nil || v != "pool" {
				t.Errorf("Get = %q, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("open called %d times, want 1", n)
	}
	if v, ok := l.Loaded(); !ok || v != "pool" {
		t.Fatalf("Loaded = %q, %v", v, ok)
	}
}

func TestLazy_RetriesAfterFailure(t *testing.T) {
	fail := true
	calls := 0
	l := NewLazy(func(context.Context) (int, error) {
		calls++
		if fail {
			return 0, errors.New("connection refused")
		}
		return 42, nil
	})

	if _, err := l.Get(context.Background()); err == nil {
		t.Fatal("expected error from failing open")
	}
	fail = false
	v, err := l.Get(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Get after recovery = %d, %v", v, err)
	}
	if calls != 2 {
		t.Fatalf("open called %d times, want 2", calls)
	}
}
