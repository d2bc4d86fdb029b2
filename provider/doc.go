// Package provider holds the small contracts shared by every upstream
// adapter and state store in the service.
//
// RequestResponse[I, O] is one call to a remote capability. Middleware
// wraps it with logging, tracing and circuit breaking:
//
//	call := provider.Chain(
//	    provider.WithLogging[Req, Resp](log),
//	    provider.WithTracing[Req, Resp]("gemini"),
//	    provider.WithResilience[Req, Resp](provider.ResilienceConfig{CircuitBreaker: &cb}),
//	)(provider.Func("gemini.generate", raw))
//
// ContextStore[C] is typed key/value state with TTL. MemoryStore serves a
// single process; redis.TypedStore serves multi-instance deployments.
package provider
