package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBulkheadRejectsWhenFull(t *testing.T) {
	rejected := ""
	b := NewBulkhead(BulkheadConfig{Name: "synthesis", MaxConcurrent: 1, OnReject: func(n string) { rejected = n }})

	release := make(chan struct{})
	started := make(chan struct{})
	if err := b.Go(context.Background(), func() { close(started); <-release }); err != nil {
		t.Fatalf("Go: %v", err)
	}
	<-started

	err := b.Go(context.Background(), func() {})
	if !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("err = %v, want ErrBulkheadFull", err)
	}
	if rejected != "synthesis" {
		t.Fatalf("OnReject not called, got %q", rejected)
	}
	close(release)
}

func TestBulkheadWaitTimeout(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})
	release := make(chan struct{})
	defer close(release)
	_ = b.Go(context.Background(), func() { <-release })

	err := b.Go(context.Background(), func() {})
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Fatalf("err = %v, want ErrBulkheadTimeout", err)
	}
}

func TestBulkheadGoReleasesSlot(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 2})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		if err := b.Go(context.Background(), wg.Done); err != nil {
			t.Fatalf("Go: %v", err)
		}
	}
	wg.Wait()
	deadline := time.Now().Add(time.Second)
	for b.InUse() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if b.InUse() != 0 {
		t.Fatalf("in use = %d after completion", b.InUse())
	}
}
