// Package metrics exposes check outcomes as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/leapstack-labs/leapcheck/internal/display"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Namespace prefixes every metric name.
const Namespace = "leapcheck"

var statuses = []core.Status{core.StatusError, core.StatusWarning, core.StatusOK, core.StatusPending}

var (
	checkStatusDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "check_status"),
		"Current status of a check. The active status has value 1, others 0.",
		[]string{"check", "status"}, nil,
	)
	checkCountDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "check_count"),
		"Count returned by the latest run of a check.",
		[]string{"check"}, nil,
	)
	checkDurationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "check_duration_seconds"),
		"Duration of the latest run of a check in seconds.",
		[]string{"check"}, nil,
	)
	checksDesc = prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", "checks"),
		"Number of checks per status.",
		[]string{"status"}, nil,
	)
)

// Source yields the records to export on every collection.
type Source func() ([]display.Record, error)

// Collector is a prometheus.Collector computing gauges from display records.
type Collector struct {
	source Source
	errors prometheus.Counter
}

// NewCollector creates a collector reading records from source.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "collect_errors_total",
			Help:      "Number of collections that failed to read checks or results.",
		}),
	}
}

// Static returns a collector that always exports records.
func Static(records []display.Record) *Collector {
	return NewCollector(func() ([]display.Record, error) { return records, nil })
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- checkStatusDesc
	ch <- checkCountDesc
	ch <- checkDurationDesc
	ch <- checksDesc
	c.errors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	defer c.errors.Collect(ch)

	records, err := c.source()
	if err != nil {
		c.errors.Inc()
		ch <- prometheus.NewInvalidMetric(checkStatusDesc, err)
		return
	}

	totals := display.Counts(records)
	for _, s := range statuses {
		ch <- prometheus.MustNewConstMetric(checksDesc, prometheus.GaugeValue, float64(totals[s]), s.String())
	}

	for _, r := range records {
		for _, s := range statuses {
			v := 0.0
			if r.Status == s {
				v = 1
			}
			ch <- prometheus.MustNewConstMetric(checkStatusDesc, prometheus.GaugeValue, v, r.Name, s.String())
		}
		if r.Count != nil {
			ch <- prometheus.MustNewConstMetric(checkCountDesc, prometheus.GaugeValue, *r.Count, r.Name)
		}
		if r.Time != nil {
			ch <- prometheus.MustNewConstMetric(checkDurationDesc, prometheus.GaugeValue, *r.Time, r.Name)
		}
	}
}

// NewRegistry returns a registry holding c and the Go runtime collectors.
func NewRegistry(c *Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		c,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// Handler serves the metrics of registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Push sends records to a Prometheus Pushgateway, replacing the metrics
// previously pushed under job.
func Push(ctx context.Context, url, job string, records []display.Record) error {
	if job == "" {
		job = Namespace
	}
	if err := push.New(url, job).Collector(Static(records)).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
