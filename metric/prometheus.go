// Package metric exports classifier and HTTP metrics to Prometheus.
package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hupe1980/dnaclass"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dnaclass"

var _ dnaclass.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements dnaclass.MetricsCollector and records HTTP
// request metrics for the server.
type PrometheusCollector struct {
	gatherer prometheus.Gatherer

	opLatency      *prometheus.HistogramVec
	recordsLoaded  prometheus.Gauge
	recordsDropped prometheus.Gauge
	classes        prometheus.Gauge
	features       prometheus.Gauge
	predictions    *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	requestsRunning prometheus.Gauge
	rejected        prometheus.Counter
}

// NewPrometheusCollector creates the collectors and registers them with reg.
// A nil reg uses a fresh registry.
func NewPrometheusCollector(reg *prometheus.Registry) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	c := &PrometheusCollector{
		gatherer: reg,
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of load, train and predict operations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12),
		}, []string{"op", "status"}),
		recordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Usable records in the last loaded dataset.",
		}),
		recordsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_dropped_records",
			Help:      "Rows dropped from the last loaded dataset.",
		}),
		classes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_classes",
			Help:      "Number of classes in the trained model.",
		}),
		features: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_features",
			Help:      "Vocabulary size of the trained model.",
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions by resulting label.",
		}, []string{"label"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		requestsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_rejected_total",
			Help:      "Requests rejected by query admission.",
		}),
	}

	reg.MustRegister(
		c.opLatency,
		c.recordsLoaded,
		c.recordsDropped,
		c.classes,
		c.features,
		c.predictions,
		c.requests,
		c.requestLatency,
		c.requestsRunning,
		c.rejected,
	)
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordLoad implements dnaclass.MetricsCollector.
func (c *PrometheusCollector) RecordLoad(records, dropped int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("load", status(err)).Observe(d.Seconds())
	if err == nil {
		c.recordsLoaded.Set(float64(records))
		c.recordsDropped.Set(float64(dropped))
	}
}

// RecordTrain implements dnaclass.MetricsCollector.
func (c *PrometheusCollector) RecordTrain(classes, features int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("train", status(err)).Observe(d.Seconds())
	if err == nil {
		c.classes.Set(float64(classes))
		c.features.Set(float64(features))
	}
}

// RecordPredict implements dnaclass.MetricsCollector.
func (c *PrometheusCollector) RecordPredict(label string, d time.Duration, err error) {
	c.opLatency.WithLabelValues("predict", status(err)).Observe(d.Seconds())
	if err == nil {
		c.predictions.WithLabelValues(label).Inc()
	}
}

// RequestStarted marks a request as in flight.
func (c *PrometheusCollector) RequestStarted() { c.requestsRunning.Inc() }

// RecordRequest records a finished request.
func (c *PrometheusCollector) RecordRequest(route, method string, code int, d time.Duration) {
	c.requestsRunning.Dec()
	c.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	c.requestLatency.WithLabelValues(route).Observe(d.Seconds())
}

// RecordRejected counts a request turned away by query admission.
func (c *PrometheusCollector) RecordRejected() { c.rejected.Inc() }

// Handler serves the registry in the Prometheus exposition format.
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
