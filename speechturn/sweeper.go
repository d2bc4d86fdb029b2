package speechturn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/speechturn/component"
)

// SweeperComponent runs AudioCache.RunSweeper for the lifetime of the process.
type SweeperComponent struct {
	cache    *AudioCache
	interval time.Duration

	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewSweeperComponent sweeps cache every interval.
func NewSweeperComponent(cache *AudioCache, interval time.Duration) *SweeperComponent {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweeperComponent{cache: cache, interval: interval}
}

// Name returns the component name.
func (s *SweeperComponent) Name() string { return "audio-sweeper" }

// Start launches the sweep loop.
func (s *SweeperComponent) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		s.cache.RunSweeper(ctx, s.interval)
	}()
	return nil
}

// Stop ends the loop and waits for an in-flight sweep.
func (s *SweeperComponent) Stop(context.Context) error {
	if s.cancel != nil {
		s.cancel()
		s.done.Wait()
		s.cancel = nil
	}
	return nil
}

// Health reports whether the loop runs.
func (s *SweeperComponent) Health(context.Context) component.Health {
	if s.cancel == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// Describe reports the schedule.
func (s *SweeperComponent) Describe() component.Description {
	return component.Description{
		Name:    "Audio Sweeper",
		Type:    "worker",
		Details: fmt.Sprintf("interval=%s ttl=%s", s.interval, s.cache.TTL()),
	}
}
