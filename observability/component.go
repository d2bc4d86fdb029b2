package observability

import (
	"context"
	"fmt"

	"github.com/kbukum/speechturn/component"
)

// Component installs the exporters on Start and flushes them on Stop.
type Component struct {
	cfg      Config
	res      Resource
	shutdown Shutdown
}

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, res Resource) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, res: res}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start installs the global tracer and meter providers.
func (c *Component) Start(ctx context.Context) error {
	shutdown, err := Init(ctx, c.cfg, c.res)
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.shutdown = shutdown
	return nil
}

// Stop flushes pending spans and metrics.
func (c *Component) Stop(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	err := c.shutdown(ctx)
	c.shutdown = nil
	return err
}

// Health is always healthy; export failures are retried by the SDK.
func (c *Component) Health(context.Context) component.Health {
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe reports the export target.
func (c *Component) Describe() component.Description {
	if !c.cfg.Enabled {
		return component.Description{Name: "Telemetry", Type: "telemetry", Details: "disabled"}
	}
	return component.Description{
		Name:    "Telemetry",
		Type:    "telemetry",
		Details: fmt.Sprintf("otlp-http endpoint=%s sample_rate=%v", c.cfg.Endpoint, c.cfg.SampleRate),
	}
}
