// Package metrics records Steam login activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder is implemented by the metric sinks the login flow reports to
type Recorder interface {
	// RecordLoginStarted records a StartLogin call
	RecordLoginStarted(success bool)

	// RecordCallback records a completed callback; reason is the user facing failure
	// message, empty on success
	RecordCallback(success bool, reason string)

	// RecordStatusPoll records a status read by the resulting status
	RecordStatusPoll(status string)
}

// NoopRecorder discards everything
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) RecordLoginStarted(bool)     {}
func (NoopRecorder) RecordCallback(bool, string) {}
func (NoopRecorder) RecordStatusPoll(string)     {}

// PrometheusRecorder records metrics using Prometheus.
type PrometheusRecorder struct {
	registry      *prometheus.Registry
	loginsStarted *prometheus.CounterVec
	callbacks     *prometheus.CounterVec
	statusPolls   *prometheus.CounterVec
}

// NewPrometheusRecorder registers the login metrics, plus the Go runtime and
// process collectors, on a private registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	loginsStarted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghub_steam_logins_started_total",
		Help: "Total Steam login attempts started",
	}, []string{"result"})

	callbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghub_steam_callbacks_total",
		Help: "Total Steam OpenID callbacks processed",
	}, []string{"result", "reason"})

	statusPolls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghub_steam_status_polls_total",
		Help: "Total session status reads",
	}, []string{"status"})

	reg.MustRegister(
		loginsStarted,
		callbacks,
		statusPolls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &PrometheusRecorder{
		registry:      reg,
		loginsStarted: loginsStarted,
		callbacks:     callbacks,
		statusPolls:   statusPolls,
	}
}

// MustRegister adds extra collectors, such as a live session gauge
func (p *PrometheusRecorder) MustRegister(cs ...prometheus.Collector) {
	p.registry.MustRegister(cs...)
}

// Gatherer exposes the registry for scraping and tests
func (p *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) RecordLoginStarted(success bool) {
	p.loginsStarted.WithLabelValues(result(success)).Inc()
}

func (p *PrometheusRecorder) RecordCallback(success bool, reason string) {
	p.callbacks.WithLabelValues(result(success), reason).Inc()
}

func (p *PrometheusRecorder) RecordStatusPoll(status string) {
	p.statusPolls.WithLabelValues(status).Inc()
}

func result(success bool) string {
	if success {
		return ResultSuccess
	}
	return ResultError
}
