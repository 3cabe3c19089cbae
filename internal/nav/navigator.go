// Package nav applies the route guard to navigation requests.
package nav

import (
	"context"
	"log/slog"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
)

type SessionSource interface {
	Snapshot() domain.Session
	Done() <-chan struct{}
}

// Result is one navigation. Requested is the normalized path asked for;
// Decision is the final decision after at most one redirect.
type Result struct {
	Requested string
	Decision  guard.Decision
	Session   domain.Session
	Trail     []guard.Decision
}

// Redirected reports whether the final path differs from the requested one.
func (r Result) Redirected() bool { return len(r.Trail) > 1 }

type Navigator struct {
	guard    *guard.RouteGuard
	sessions SessionSource
	logger   *slog.Logger
}

func NewNavigator(g *guard.RouteGuard, sessions SessionSource, logger *slog.Logger) *Navigator {
	if g == nil {
		g = guard.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{guard: g, sessions: sessions, logger: logger}
}

// Navigate decides once against the current snapshot. A redirect is followed
// at most once; a deferred decision is returned as is.
func (n *Navigator) Navigate(ctx context.Context, path string) Result {
	s := n.sessions.Snapshot()
	return n.decide(ctx, path, s)
}

// Open waits for resolution to finish when the session is still resolving,
// then navigates. It returns ctx.Err() if ctx ends first.
func (n *Navigator) Open(ctx context.Context, path string) (Result, error) {
	res := n.Navigate(ctx, path)
	if res.Decision.Action != guard.ActionDefer {
		return res, nil
	}
	select {
	case <-n.sessions.Done():
	case <-ctx.Done():
		return res, ctx.Err()
	}
	return n.Navigate(ctx, path), nil
}

func (n *Navigator) decide(ctx context.Context, path string, s domain.Session) Result {
	d := n.guard.Authorize(path, s.Status)
	observability.RecordGuardDecision(ctx, string(d.Action))
	res := Result{Requested: guard.Normalize(path), Decision: d, Session: s, Trail: []guard.Decision{d}}
	if d.Action != guard.ActionRedirect {
		return res
	}

	next := n.guard.Authorize(d.Path, s.Status)
	observability.RecordGuardDecision(ctx, string(next.Action))
	res.Trail = append(res.Trail, next)
	res.Decision = next
	if next.Action == guard.ActionRedirect {
		n.logger.WarnContext(ctx, "redirect chain stopped", "from", path, "to", d.Path, "next", next.Path)
	} else {
		n.logger.DebugContext(ctx, "navigation redirected", "from", path, "to", next.Path, "status", s.Status)
	}
	return res
}
