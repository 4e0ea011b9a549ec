// Package metrics exposes counters and histograms for content queries and page loads.
package metrics

import "time"

// ResultLabel enumerates query result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultError    ResultLabel = "error"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for CMS queries and page controllers.
// Implementations must tolerate nil receivers so callers can inject them optionally.
type Recorder interface {
	ObserveQuery(contentType, mode string, d time.Duration, result ResultLabel)
	IncPageLoad(page, state string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveQuery(string, string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncPageLoad(string, string)                              {}
