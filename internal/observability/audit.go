package observability

import (
	"context"
	"log/slog"
)

// Audit emits a session audit record. Callers must never pass the bearer token.
func Audit(ctx context.Context, logger *slog.Logger, event string, attrs ...any) {
	if logger == nil {
		logger = slog.Default()
	}
	base := []any{"event", event}
	base = append(base, attrs...)
	logger.InfoContext(ctx, "audit", base...)
}
