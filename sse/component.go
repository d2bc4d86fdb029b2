package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/speechturn/component"
	"github.com/kbukum/speechturn/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component runs a Hub inside the component registry.
type Component struct {
	hub     *Hub
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewComponent creates a component with a fresh Hub.
func NewComponent(log *logger.Logger) *Component {
	return &Component{hub: NewHub(log)}
}

// Hub returns the hub for publishing and subscribing.
func (c *Component) Hub() *Hub { return c.hub }

// Name returns the component name.
func (c *Component) Name() string { return "sse" }

// Start runs the hub loop.
func (c *Component) Start(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	c.running = true
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop closes every stream and waits for the loop to exit.
func (c *Component) Stop(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hub.Stop()
	c.wg.Wait()
	c.running = false
	return nil
}

// Health reports the subscriber count.
func (c *Component) Health(context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not running"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients", c.hub.ClientCount()),
	}
}

// Describe summarizes the hub.
func (c *Component) Describe() component.Description {
	return component.Description{Name: "SSE Hub", Type: "sse", Details: "audio job status streams"}
}
