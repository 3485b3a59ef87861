package ratelimit

// NoopMetrics implements the Metrics interface with no-op implementations.
//
// Useful for tests and for running without a metrics backend.
type NoopMetrics struct{}

// NewNoopMetrics creates a new NoopMetrics instance.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// RecordAllowed is a no-op implementation.
func (m *NoopMetrics) RecordAllowed(action string) {}

// RecordDenied is a no-op implementation.
func (m *NoopMetrics) RecordDenied(action string) {}

// SetActiveKeys is a no-op implementation.
func (m *NoopMetrics) SetActiveKeys(count int) {}

// RecordSwept is a no-op implementation.
func (m *NoopMetrics) RecordSwept(count int) {}
