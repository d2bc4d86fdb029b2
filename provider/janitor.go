package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/speechturn/component"
	"github.com/kbukum/speechturn/logger"
)

// Pruner is implemented by stores that drop expired entries in bulk.
type Pruner interface {
	Prune() int
}

var _ Pruner = (*MemoryStore[any])(nil)

// Janitor prunes in-process stores on an interval so entries that are never
// read again still leave memory once their TTL passes.
type Janitor struct {
	interval time.Duration
	stores   []Pruner
	log      *logger.Logger

	cancel context.CancelFunc
	done   sync.WaitGroup
}

// NewJanitor prunes stores every interval.
func NewJanitor(interval time.Duration, log *logger.Logger, stores ...Pruner) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Janitor{interval: interval, stores: stores, log: log.WithComponent("store-janitor")}
}

// PruneAll prunes every store once and returns the number of dropped entries.
func (j *Janitor) PruneAll() int {
	n := 0
	for _, s := range j.stores {
		n += s.Prune()
	}
	if n > 0 {
		j.log.Debug("pruned expired entries", map[string]interface{}{"count": n})
	}
	return n
}

// Name returns the component name.
func (j *Janitor) Name() string { return "store-janitor" }

// Start launches the prune loop.
func (j *Janitor) Start(context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done.Add(1)
	go func() {
		defer j.done.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.PruneAll()
			}
		}
	}()
	return nil
}

// Stop ends the loop.
func (j *Janitor) Stop(context.Context) error {
	if j.cancel != nil {
		j.cancel()
		j.done.Wait()
		j.cancel = nil
	}
	return nil
}

// Health reports whether the loop runs.
func (j *Janitor) Health(context.Context) component.Health {
	if j.cancel == nil {
		return component.Health{Name: j.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{Name: j.Name(), Status: component.StatusHealthy}
}

// Describe reports the schedule.
func (j *Janitor) Describe() component.Description {
	return component.Description{
		Name:    "Store Janitor",
		Type:    "worker",
		Details: fmt.Sprintf("interval=%s stores=%d", j.interval, len(j.stores)),
	}
}
