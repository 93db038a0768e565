package limiter

import (
	"context"
	"testing"
	"time"
)

func TestUnlimitedNeverBlocks(t *testing.T) {
	l := New(0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestThrottlePacesOperations(t *testing.T) {
	l := New(100) // 100 ops/sec
	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
	// 4 ops at 100/s: the last three must each wait ~10ms
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("4 ops at 100/s took only %v", elapsed)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	l := New(0.001) // effectively never refills
	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestNilLimiterIsSafe(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter Wait failed: %v", err)
	}
}
