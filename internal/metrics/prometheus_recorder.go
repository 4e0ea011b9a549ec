package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	queries       *prom.CounterVec
	queryDuration *prom.HistogramVec
	pageLoads     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.queries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cms_queries_total",
			Help:      "CMS entry queries by content type, API mode and result",
		}, []string{"content_type", "mode", "result"})
		pr.queryDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "cms_query_duration_seconds",
			Help:      "Duration of CMS entry queries",
			Buckets:   prom.DefBuckets,
		}, []string{"content_type", "mode"})
		pr.pageLoads = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_loads_total",
			Help:      "Page controller loads by page and terminal state",
		}, []string{"page", "state"})
		reg.MustRegister(pr.queries, pr.queryDuration, pr.pageLoads)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveQuery(contentType, mode string, d time.Duration, result ResultLabel) {
	if p == nil || p.queries == nil {
		return
	}
	p.queries.WithLabelValues(contentType, mode, string(result)).Inc()
	p.queryDuration.WithLabelValues(contentType, mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageLoad(page, state string) {
	if p == nil || p.pageLoads == nil {
		return
	}
	p.pageLoads.WithLabelValues(page, state).Inc()
}

// HTTPHandler returns an http.Handler that serves metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
