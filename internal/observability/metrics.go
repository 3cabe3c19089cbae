package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/sandeepkv93/dexnote-client/internal/config"
)

const meterName = "dexnote-client"

type AppMetrics struct {
	sessionResolveCounter    metric.Int64Counter
	sessionTransitionCounter metric.Int64Counter
	guardDecisionCounter     metric.Int64Counter
	tokenStoreCounter        metric.Int64Counter
	repositoryCounter        metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

// InitMetrics installs a meter provider. With export disabled the provider
// still records, so instruments stay usable in tests and offline runs.
func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	var mp *sdkmetric.MeterProvider
	if !cfg.OTELMetricsEnabled {
		mp = sdkmetric.NewMeterProvider()
		logger.Debug("otel metrics export disabled")
	} else {
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
		if cfg.OTELExporterOTLPInsecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exporter, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create otlp metric exporter: %w", err)
		}
		res, err := newResource(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create metric resource: %w", err)
		}
		reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
		mp = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		)
		logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	}
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()
	return mp, nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	resolveCounter, err := meter.Int64Counter("session.resolve.outcomes")
	if err != nil {
		return nil, err
	}
	transitionCounter, err := meter.Int64Counter("session.transitions")
	if err != nil {
		return nil, err
	}
	guardCounter, err := meter.Int64Counter("guard.decisions")
	if err != nil {
		return nil, err
	}
	tokenStoreCounter, err := meter.Int64Counter("token_store.operations")
	if err != nil {
		return nil, err
	}
	repositoryCounter, err := meter.Int64Counter("repository.operations")
	if err != nil {
		return nil, err
	}
	return &AppMetrics{
		sessionResolveCounter:    resolveCounter,
		sessionTransitionCounter: transitionCounter,
		guardDecisionCounter:     guardCounter,
		tokenStoreCounter:        tokenStoreCounter,
		repositoryCounter:        repositoryCounter,
	}, nil
}

func newResource(ctx context.Context, cfg *config.Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
}

func currentMetrics() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordSessionResolve(ctx context.Context, outcome, class string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.sessionResolveCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("class", class),
	))
}

func RecordSessionTransition(ctx context.Context, to string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.sessionTransitionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("to", to)))
}

func RecordGuardDecision(ctx context.Context, action string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.guardDecisionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

func RecordTokenStoreOperation(ctx context.Context, backend, op, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.tokenStoreCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

func RecordRepositoryOperation(ctx context.Context, repo, op, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.repositoryCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("repo", repo),
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}
