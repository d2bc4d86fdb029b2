package transcription

import (
	"context"

	"github.com/kbukum/speechturn/provider"
)

// Provider is the interface transcription backends implement.
type Provider interface {
	provider.Provider

	// Transcribe returns the trimmed transcript. An empty transcript is an error.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
