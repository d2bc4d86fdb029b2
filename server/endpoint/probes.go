package endpoint

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/component"
	"github.com/kbukum/speechturn/version"
)

// HealthChecker returns the health of every registered component.
type HealthChecker func(ctx context.Context) []component.Health

// Capabilities reports which optional features are configured, keyed by
// name (speech, auth, audio_tokens). A false entry means the matching
// routes answer 503.
type Capabilities func() map[string]bool

// Probes holds what the probe handlers report on.
type Probes struct {
	Service      string
	Check        HealthChecker
	Capabilities Capabilities
	started      time.Time
}

// Register mounts the probe routes on r.
func Register(r gin.IRoutes, p Probes) {
	p.started = time.Now()
	r.GET("/health", p.health)
	r.GET("/ready", p.ready)
	r.GET("/live", p.live)
	r.GET("/info", p.info)
}

func (p *Probes) components(ctx context.Context) []component.Health {
	if p.Check == nil {
		return nil
	}
	return p.Check(ctx)
}

func (p *Probes) capabilities() map[string]bool {
	if p.Capabilities == nil {
		return nil
	}
	return p.Capabilities()
}

// status folds component health and capabilities into one word. An
// unhealthy component wins; a missing capability only degrades.
func status(components []component.Health, caps map[string]bool) component.HealthStatus {
	out := component.StatusHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			out = component.StatusDegraded
		}
	}
	for _, ok := range caps {
		if !ok {
			out = component.StatusDegraded
		}
	}
	return out
}

func (p *Probes) health(c *gin.Context) {
	components := p.components(c.Request.Context())
	caps := p.capabilities()
	st := status(components, caps)
	code := http.StatusOK
	if st == component.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":       st,
		"service":      p.Service,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"components":   components,
		"capabilities": caps,
	})
}

// ready fails only on unhealthy components: an instance without a model
// key still serves auth and chat.
func (p *Probes) ready(c *gin.Context) {
	if status(p.components(c.Request.Context()), nil) == component.StatusUnhealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "service": p.Service})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "service": p.Service})
}

func (p *Probes) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive", "service": p.Service})
}

func (p *Probes) info(c *gin.Context) {
	v := version.Get()
	var enabled []string
	for name, ok := range p.capabilities() {
		if ok {
			enabled = append(enabled, name)
		}
	}
	sort.Strings(enabled)
	c.JSON(http.StatusOK, gin.H{
		"service":      p.Service,
		"version":      v.Short(),
		"release":      v.Release,
		"go_version":   v.GoVersion,
		"uptime":       time.Since(p.started).Round(time.Second).String(),
		"capabilities": enabled,
	})
}
