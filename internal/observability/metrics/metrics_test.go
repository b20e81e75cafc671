package metrics

import "testing"

// Services treat the metrics handles as optional dependencies, so every
// recording method must tolerate a nil receiver.
func TestNilReceiversAreSafe(t *testing.T) {
	var httpMetrics *HTTPMetrics
	httpMetrics.Observe("/api/logs", "GET", "200", 0.01)

	var m *Metrics
	m.RecordLogCreated("1L")
	m.RecordImportRow("imported")
}
