package tts

import (
	"context"

	"github.com/kbukum/speechturn/provider"
)

// Provider is the interface synthesis backends implement.
type Provider interface {
	provider.Provider

	// Synthesize returns audio for req.Text. A response without audio is an error.
	Synthesize(ctx context.Context, req Request) (*Result, error)
}
