// Command dnaclass trains a k-mer Naive Bayes classifier on a labeled DNA
// dataset and serves predictions over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/hupe1980/dnaclass"
	"github.com/hupe1980/dnaclass/dataset"
	"github.com/hupe1980/dnaclass/internal/config"
	"github.com/hupe1980/dnaclass/internal/server"
	"github.com/hupe1980/dnaclass/metric"
	"github.com/hupe1980/dnaclass/resource"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, lookup config.LookupFunc, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, lookup, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "dnaclass: %v\n", err)
		return 2
	}

	logger := newLogger(cfg, stderr)
	if err := start(ctx, cfg, logger, stdout); err != nil {
		logger.ErrorContext(ctx, "fatal", "error", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config, w io.Writer) *dnaclass.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return dnaclass.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return dnaclass.NewLogger(slog.NewTextHandler(w, opts))
}

func start(ctx context.Context, cfg *config.Config, logger *dnaclass.Logger, stdout io.Writer) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := metric.NewPrometheusCollector(reg)

	rc := resource.NewController(resource.Config{
		MaxConcurrentQueries: cfg.MaxConcurrent,
		QueriesPerSecond:     cfg.QPS,
		IOLimitBytesPerSec:   cfg.LoadBytesPerSec,
	})

	clf, err := classifier(ctx, cfg, logger, metrics, rc)
	if err != nil {
		return err
	}

	if cfg.SnapshotOut != "" {
		store, name, err := cfg.OpenStore(ctx, cfg.SnapshotOut)
		if err != nil {
			return err
		}
		if err := clf.Save(ctx, store, name); err != nil {
			return err
		}
	}

	if cfg.Predict != "" {
		p, err := clf.Predict(ctx, cfg.Predict)
		if err != nil {
			return err
		}
		return printPrediction(stdout, p)
	}

	srv, err := server.New(clf,
		server.WithLogger(logger.WithComponent("http")),
		server.WithAdmission(rc),
		server.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Addr)
}

// classifier opens the configured snapshot, or trains on the dataset.
func classifier(ctx context.Context, cfg *config.Config, logger *dnaclass.Logger,
	metrics dnaclass.MetricsCollector, rc *resource.Controller) (*dnaclass.Classifier, error) {
	opts := []dnaclass.Option{
		dnaclass.WithLogger(logger),
		dnaclass.WithMetricsCollector(metrics),
		dnaclass.WithK(cfg.K),
		dnaclass.WithAlpha(cfg.Alpha),
		dnaclass.WithMinDocFreq(cfg.MinDocFreq),
		dnaclass.WithColumns(cfg.SequenceColumn, cfg.LabelColumn),
	}
	if cfg.CaseSensitive {
		opts = append(opts, dnaclass.WithCaseSensitive())
	}
	if cfg.LoadBytesPerSec > 0 {
		opts = append(opts, dnaclass.WithDatasetOptions(dataset.WithReadWrapper(
			func(ctx context.Context, r io.Reader) io.Reader {
				return resource.NewRateLimitedReader(ctx, r, rc)
			})))
	}

	if cfg.Snapshot != "" {
		store, name, err := cfg.OpenStore(ctx, cfg.Snapshot)
		if err != nil {
			return nil, err
		}
		return dnaclass.Open(ctx, store, name, opts...)
	}

	store, name, err := cfg.OpenStore(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return dnaclass.Load(ctx, store, name, opts...)
}

func printPrediction(w io.Writer, p *dnaclass.Prediction) error {
	fmt.Fprintf(w, "prediction: %s\n", p.Label)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cp := range p.Probabilities {
		fmt.Fprintf(tw, "  %s\t%.6f\n", cp.Label, cp.Probability)
	}
	return tw.Flush()
}
