package provider

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestJanitorPrunesUnreadEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	jobs := NewMemoryStore[session]().WithClock(func() time.Time { return now })
	refresh := NewMemoryStore[int]().WithClock(func() time.Time { return now })
	for i := 0; i < 1000; i++ {
		_ = jobs.Save(ctx, strconv.Itoa(i), &session{Subject: "alice"}, time.Hour)
	}
	one := 1
	_ = refresh.Save(ctx, "jti", &one, 30*24*time.Hour)

	j := NewJanitor(time.Minute, nil, jobs, refresh)
	now = now.Add(48 * time.Hour)
	if n := j.PruneAll(); n != 1000 {
		t.Fatalf("PruneAll = %d, want 1000", n)
	}
	if jobs.Len() != 0 {
		t.Fatalf("job store Len = %d, want 0", jobs.Len())
	}
	if refresh.Len() != 1 {
		t.Fatalf("refresh store Len = %d, want 1", refresh.Len())
	}
}

func TestJanitorLoop(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	store := NewMemoryStore[int]().WithClock(func() time.Time { return now })
	one := 1
	for i := 0; i < 10; i++ {
		_ = store.Save(ctx, strconv.Itoa(i), &one, time.Hour)
	}
	now = now.Add(2 * time.Hour)

	j := NewJanitor(5*time.Millisecond, nil, store)
	if err := j.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer j.Stop(ctx)

	deadline := time.Now().Add(time.Second)
	for store.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Len = %d after deadline", store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if h := j.Health(ctx); h.Status != "healthy" {
		t.Fatalf("health = %s", h.Status)
	}
	_ = j.Stop(ctx)
	if h := j.Health(ctx); h.Status == "healthy" {
		t.Fatal("stopped janitor reports healthy")
	}
}
