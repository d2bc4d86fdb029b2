package llm

import (
	"context"

	"github.com/kbukum/speechturn/provider"
)

// Provider is the interface text-generation backends implement.
type Provider interface {
	provider.Provider

	// Complete returns free-form text.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// CompleteStructured returns raw JSON text that should match req.Schema.
	// Callers must still parse defensively; the backend may ignore the schema.
	// A 429 from upstream is reported as an error wrapping ErrRateLimited.
	CompleteStructured(ctx context.Context, req StructuredRequest) (*CompletionResponse, error)
}
