// Package resilience provides reliability and fault tolerance patterns for
// calls to the external managed services the site depends on.
//
// The only pattern implemented is the circuit breaker: a failed external
// call is surfaced once, never retried automatically, and a persistently
// failing provider is short-circuited so request handling does not queue
// behind it.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.AuthProviderConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callAuthProvider()
//	})
package resilience
