package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/llm"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/provider"
	"github.com/kbukum/speechturn/resilience"
)

const serviceName = "gemini"

// Client owns the shared genai client and the adapter configuration.
type Client struct {
	cfg Config
	api *genai.Client
	log *logger.Logger
}

// New creates a Client. Without an API key it returns a NotConfigured error
// so callers can keep serving other routes.
func New(ctx context.Context, cfg Config, log *logger.Logger, httpClient *http.Client) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Configured() {
		return nil, apperrors.NotConfigured("GEMINI_API_KEY")
	}
	if log == nil {
		log = logger.NewNop()
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	api, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, apperrors.ExternalServiceError(serviceName, err)
	}
	return &Client{cfg: cfg, api: api, log: log.WithComponent(serviceName)}, nil
}

// call is one GenerateContent invocation.
type call struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	timeout  time.Duration
}

// endpoint builds the middleware-wrapped GenerateContent provider for one
// adapter. Each adapter gets its own circuit breaker; rate limiting does not
// count as an upstream failure.
func (c *Client) endpoint(name string) provider.RequestResponse[call, *genai.GenerateContentResponse] {
	base := provider.Func(name, func(ctx context.Context, in call) (*genai.GenerateContentResponse, error) {
		if in.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, in.timeout)
			defer cancel()
		}
		resp, err := c.api.Models.GenerateContent(ctx, in.model, in.contents, in.config)
		if err != nil {
			return nil, mapError(name, err)
		}
		return resp, nil
	})

	breaker := resilience.DefaultCircuitBreakerConfig(name)
	breaker.MaxFailures = c.cfg.BreakerFailures
	breaker.Timeout = c.cfg.BreakerTimeout
	breaker.IsFailure = func(err error) bool { return !llm.IsRateLimited(err) }
	breaker.OnStateChange = func(n string, from, to resilience.State) {
		c.log.Warn("circuit breaker state changed", map[string]interface{}{
			logger.FieldProvider: n,
			"from":               from.String(),
			"to":                 to.String(),
		})
	}

	return provider.Chain(
		provider.WithLogging[call, *genai.GenerateContentResponse](c.log),
		provider.WithTracing[call, *genai.GenerateContentResponse](serviceName),
		provider.WithResilience[call, *genai.GenerateContentResponse](provider.ResilienceConfig{CircuitBreaker: &breaker}),
	)(base)
}

// mapError converts a genai failure into the errors taxonomy. Rate limits keep
// llm.ErrRateLimited in the cause chain so retry predicates can match them.
func mapError(name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(name).WithCause(err)
	}
	if isRateLimited(err) {
		return apperrors.RateLimited().
			WithCause(fmt.Errorf("%w: %w", llm.ErrRateLimited, err)).
			WithDetail("service", name)
	}
	return apperrors.ExternalServiceError(name, err)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return false
}

// userContent wraps parts as a single user turn.
func userContent(parts ...*genai.Part) []*genai.Content {
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func systemInstruction(text string) *genai.Content {
	if text == "" {
		return nil
	}
	return genai.NewContentFromText(text, genai.RoleUser)
}

func usage(resp *genai.GenerateContentResponse) llm.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}
