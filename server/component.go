package server

import (
	"context"
	"fmt"

	"github.com/kbukum/speechturn/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component runs a Server inside the component registry.
type Component struct {
	server  *Server
	started bool
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Server returns the wrapped server.
func (c *Component) Server() *Server { return c.server }

// Name returns the component name.
func (c *Component) Name() string { return "http-server" }

// Start binds and serves.
func (c *Component) Start(ctx context.Context) error {
	if err := c.server.Start(ctx); err != nil {
		return err
	}
	c.server.LogRoutes()
	c.started = true
	return nil
}

// Stop shuts the server down.
func (c *Component) Stop(ctx context.Context) error {
	if !c.started {
		return nil
	}
	c.started = false
	return c.server.Stop(ctx)
}

// Health reports whether the server is serving.
func (c *Component) Health(_ context.Context) component.Health {
	if !c.started {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe summarizes the listener.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d h2c public=%s", cfg.Host, cfg.Port, cfg.BaseURL()),
		Port:    cfg.Port,
	}
}
