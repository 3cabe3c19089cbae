package observability

import (
	"context"
	"errors"
	"log/slog"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/sandeepkv93/dexnote-client/internal/config"
)

// Runtime owns the telemetry providers of one CLI invocation. Logger is the
// process logger, bridged to OTLP when log export is on.
type Runtime struct {
	MeterProvider  *sdkmetric.MeterProvider
	TracerProvider *sdktrace.TracerProvider
	LoggerProvider *sdklog.LoggerProvider
	Logger         *slog.Logger

	shutdowns []func(context.Context) error
}

func InitRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{Logger: logger}
	fail := func(err error) (*Runtime, error) {
		_ = rt.Shutdown(ctx)
		return nil, err
	}

	mp, err := InitMetrics(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	rt.MeterProvider = mp
	if mp != nil {
		rt.shutdowns = append(rt.shutdowns, mp.Shutdown)
	}

	tp, err := InitTracing(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	rt.TracerProvider = tp
	rt.shutdowns = append(rt.shutdowns, tp.Shutdown)

	lp, bridged, err := InitLogs(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	rt.Logger = bridged
	if lp != nil {
		rt.LoggerProvider = lp
		rt.shutdowns = append(rt.shutdowns, lp.Shutdown)
	}
	return rt, nil
}

// Shutdown flushes providers in reverse start order.
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	var errs []error
	for i := len(r.shutdowns) - 1; i >= 0; i-- {
		if err := r.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.shutdowns = nil
	return errors.Join(errs...)
}
