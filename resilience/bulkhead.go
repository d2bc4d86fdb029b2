package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	Name string
	// MaxConcurrent is the number of calls allowed to run at once.
	MaxConcurrent int
	// MaxWait is how long to wait for a slot. Zero fails immediately when full.
	MaxWait  time.Duration
	OnReject func(name string)
}

// Bulkhead caps concurrent work with a semaphore.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}
}

// NewBulkhead creates a new bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Go acquires a slot and runs fn in a new goroutine, releasing the slot when
// fn returns. The acquire error is returned synchronously so the caller can
// record a rejection instead of losing the work silently.
func (b *Bulkhead) Go(ctx context.Context, fn func()) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	go func() {
		defer b.release()
		fn()
	}()
	return nil
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.reject()
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		return nil
	case <-timer.C:
		b.reject()
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) release() {
	<-b.sem
}

func (b *Bulkhead) reject() {
	if b.config.OnReject != nil {
		b.config.OnReject(b.config.Name)
	}
}

// InUse returns the number of slots currently in use.
func (b *Bulkhead) InUse() int {
	return len(b.sem)
}

// MaxConcurrent returns the configured capacity.
func (b *Bulkhead) MaxConcurrent() int {
	return b.config.MaxConcurrent
}
