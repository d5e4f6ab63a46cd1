package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/datasetcatalog"
	"github.com/skosovsky/recipebook/internal/config"
	"github.com/skosovsky/recipebook/observability"
	"github.com/skosovsky/recipebook/storage/badgerstore"
	"github.com/skosovsky/recipebook/storage/filestore"
	"github.com/skosovsky/recipebook/storage/httpstore"
	"github.com/skosovsky/recipebook/storage/memstore"
	"github.com/skosovsky/recipebook/storage/sqlstore"
)

//go:embed builtin
var builtinFS embed.FS

// app wires the configured store, catalog and registry for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	format   recipebook.Format
	store    recipebook.Storage
	catalog  *datasetcatalog.Catalog
	registry *recipebook.Registry
	recorder recipebook.Recorder
	tracer   trace.Tracer
	gatherer *prometheus.Registry
	closeFn  func() error
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := observability.NewLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})
	format := recipebook.Format(cfg.Storage.Format)

	store, closeFn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		format:   format,
		store:    store,
		recorder: recipebook.NopRecorder(),
		tracer:   observability.Tracer(),
		closeFn:  closeFn,
	}
	if cfg.Metrics.Enabled {
		a.gatherer = prometheus.NewRegistry()
		m, err := observability.NewMetrics(a.gatherer)
		if err != nil {
			_ = closeFn()
			return nil, err
		}
		a.recorder = m
	}
	a.catalog = datasetcatalog.New(store,
		datasetcatalog.WithNamespace(cfg.Namespaces.Datasets),
		datasetcatalog.WithFormat(format),
	)
	a.registry = recipebook.New(store, a.catalog, a.registryOptions()...)
	logger.Debug("store opened", "backend", cfg.Storage.Backend, "format", format)
	return a, nil
}

// registryOptions returns the options every registry of the app is built with, followed by extra.
func (a *app) registryOptions(extra ...recipebook.Option) []recipebook.Option {
	return append([]recipebook.Option{
		recipebook.WithNamespace(a.cfg.Namespaces.Recipes),
		recipebook.WithFormat(a.format),
		recipebook.WithLogger(a.logger),
		recipebook.WithRecorder(a.recorder),
		recipebook.WithTracer(a.tracer),
	}, extra...)
}

// openStore returns the configured backend and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (recipebook.Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return filestore.New(cfg.Storage.Path), noop, nil
	case config.BackendMemory:
		return memstore.New(), noop, nil
	case config.BackendBadger:
		s, err := badgerstore.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendSQLite:
		s, err := sqlstore.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendHTTP:
		s, err := httpstore.New(cfg.Storage.URL, httpstore.WithAuthToken(cfg.Storage.Token))
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close logs collected metrics (when enabled) and releases the store.
func (a *app) Close() error {
	if a.gatherer != nil {
		families, err := a.gatherer.Gather()
		if err != nil {
			a.logger.Warn("gather metrics", "error", err)
		}
		logMetricFamilies(a.logger, families)
	}
	return a.closeFn()
}

// withApp loads configuration, builds the app and closes it after fn returns.
func withApp(cmd *cobra.Command, configPath string, fn func(*app) error) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}

// logMetricFamilies writes one Info record per counter sample and histogram series.
func logMetricFamilies(logger *slog.Logger, families []*dto.MetricFamily) {
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				attrs = append(attrs, "count", h.GetSampleCount(), "sum_seconds", h.GetSampleSum())
			default:
				continue
			}
			logger.Info("metric", attrs...)
		}
	}
}
