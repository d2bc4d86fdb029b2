// Package resilience provides the fault-tolerance primitives used around
// upstream capability calls: bounded retry with exponential backoff, a
// circuit breaker that fails fast while an upstream is unhealthy, and a
// bulkhead that caps concurrent background work.
package resilience
