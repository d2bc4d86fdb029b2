package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/resilience"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware[string, string] {
		return func(inner RequestResponse[string, string]) RequestResponse[string, string] {
			return Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, name)
				return inner.Execute(ctx, in)
			})
		}
	}
	base := Func("echo", func(_ context.Context, in string) (string, error) { return in, nil })
	p := Chain(tag("outer"), tag("inner"))(base)

	out, err := p.Execute(context.Background(), "hi")
	if err != nil || out != "hi" {
		t.Fatalf("Execute = %q, %v", out, err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("order = %v", order)
	}
	if p.Name() != "echo" {
		t.Fatalf("Name = %q", p.Name())
	}
}

func TestLoggingAndTracingPassThrough(t *testing.T) {
	errBoom := errors.New("boom")
	base := Func("gemini.generate", func(_ context.Context, in int) (int, error) {
		if in < 0 {
			return 0, errBoom
		}
		return in * 2, nil
	})
	p := Chain(WithLogging[int, int](logger.NewNop()), WithTracing[int, int]("test"))(base)

	if out, err := p.Execute(context.Background(), 2); err != nil || out != 4 {
		t.Fatalf("Execute = %d, %v", out, err)
	}
	if _, err := p.Execute(context.Background(), -1); !errors.Is(err, errBoom) {
		t.Fatalf("error should pass through, got %v", err)
	}
}

func TestWithResilienceOpensCircuit(t *testing.T) {
	calls := 0
	base := Func("gemini.tts", func(context.Context, struct{}) (struct{}, error) {
		calls++
		return struct{}{}, errors.New("upstream 500")
	})
	p := WithResilience[struct{}, struct{}](ResilienceConfig{
		CircuitBreaker: &resilience.CircuitBreakerConfig{Name: "tts", MaxFailures: 2, Timeout: time.Hour},
	})(base)

	for i := 0; i < 2; i++ {
		_, _ = p.Execute(context.Background(), struct{}{})
	}
	if p.IsAvailable(context.Background()) {
		t.Fatal("provider should be unavailable while the circuit is open")
	}

	_, err := p.Execute(context.Background(), struct{}{})
	if !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("open circuit must not reach upstream, calls = %d", calls)
	}
}

func TestWithResilienceRetries(t *testing.T) {
	calls := 0
	base := Func("flaky", func(context.Context, int) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})
	p := WithResilience[int, int](ResilienceConfig{
		Retry: &resilience.RetryConfig{
			MaxAttempts: 3,
			Sleep:       func(context.Context, time.Duration) error { return nil },
		},
	})(base)

	out, err := p.Execute(context.Background(), 0)
	if err != nil || out != 7 || calls != 3 {
		t.Fatalf("Execute = %d, %v after %d calls", out, err, calls)
	}
}

func TestWithResilienceEmptyConfigIsPassthrough(t *testing.T) {
	base := Func("plain", func(context.Context, int) (int, error) { return 1, nil })
	if got := WithResilience[int, int](ResilienceConfig{})(base); got != base {
		t.Fatal("empty config should return the provider unchanged")
	}
}
