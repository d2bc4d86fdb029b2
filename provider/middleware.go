package provider

import (
	"context"
	"time"

	"github.com/kbukum/speechturn/logger"
	"github.com/kbukum/speechturn/observability"
)

// Middleware wraps a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares. Chain(a, b, c)(p) is a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// wrapped forwards Name and IsAvailable to the inner provider.
type wrapped[I, O any] struct {
	inner RequestResponse[I, O]
}

func (w wrapped[I, O]) Name() string                         { return w.inner.Name() }
func (w wrapped[I, O]) IsAvailable(ctx context.Context) bool { return w.inner.IsAvailable(ctx) }

// WithLogging logs each call with its duration and outcome.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{wrapped: wrapped[I, O]{inner}, log: log}
	}
}

type loggingRR[I, O any] struct {
	wrapped[I, O]
	log *logger.Logger
}

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := map[string]interface{}{
		logger.FieldProvider: l.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields[logger.FieldError] = err.Error()
		l.log.WithContext(ctx).Warn("provider call failed", fields)
	} else {
		l.log.WithContext(ctx).Debug("provider call ok", fields)
	}
	return output, err
}

// WithTracing opens a span named "{serviceName}.{providerName}" around each call.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{wrapped: wrapped[I, O]{inner}, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	wrapped[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrOperationName, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
