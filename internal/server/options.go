package server

import (
	"time"

	"github.com/hupe1980/dnaclass"
	"github.com/hupe1980/dnaclass/codec"
	"github.com/hupe1980/dnaclass/metric"
	"github.com/hupe1980/dnaclass/resource"
)

type options struct {
	logger          *dnaclass.Logger
	admission       *resource.Controller
	metrics         *metric.PrometheusCollector
	codec           codec.Codec
	maxBodyBytes    int64
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the request logger.
func WithLogger(logger *dnaclass.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = dnaclass.NoopLogger()
		}
		o.logger = logger
	}
}

// WithAdmission bounds prediction requests. Requests over the limit are
// answered with 429 Too Many Requests.
func WithAdmission(rc *resource.Controller) Option {
	return func(o *options) {
		o.admission = rc
	}
}

// WithMetrics records request metrics and serves them on /metrics.
func WithMetrics(m *metric.PrometheusCollector) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithCodec sets the codec used for JSON request and response bodies.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMaxBodyBytes limits the size of request bodies. The default is 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		o.maxBodyBytes = n
	}
}

// WithShutdownTimeout bounds graceful shutdown. The default is 10s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		o.shutdownTimeout = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:          dnaclass.NoopLogger(),
		codec:           codec.Default,
		maxBodyBytes:    1 << 20,
		shutdownTimeout: 10 * time.Second,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
