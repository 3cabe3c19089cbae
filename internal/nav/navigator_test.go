package nav

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
)

type fakeSessions struct {
	mu   sync.Mutex
	s    domain.Session
	done chan struct{}
}

func newFakeSessions(s domain.Session) *fakeSessions {
	f := &fakeSessions{s: s, done: make(chan struct{})}
	if s.Status != domain.StatusResolving {
		close(f.done)
	}
	return f
}

func (f *fakeSessions) Snapshot() domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func (f *fakeSessions) Done() <-chan struct{} { return f.done }

func (f *fakeSessions) finish(s domain.Session) {
	f.mu.Lock()
	f.s = s
	f.mu.Unlock()
	close(f.done)
}

func newNavigatorForTest(s SessionSource) *Navigator {
	return NewNavigator(guard.New(), s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNavigateFollowsRedirectOnce(t *testing.T) {
	user := domain.User{ID: "u1", Username: "ada"}
	tests := []struct {
		name    string
		session domain.Session
		path    string
		final   string
		trail   int
	}{
		{name: "anonymous to protected", session: domain.AnonymousSession(), path: "/notes", final: "/login", trail: 2},
		{name: "authenticated to login", session: domain.AuthenticatedSession("t", user), path: "/login", final: "/dashboard", trail: 2},
		{name: "authenticated to course", session: domain.AuthenticatedSession("t", user), path: "/courses/x", final: "/courses/x", trail: 1},
		{name: "anonymous landing", session: domain.AnonymousSession(), path: "/", final: "/", trail: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := newNavigatorForTest(newFakeSessions(tc.session))
			res := n.Navigate(context.Background(), tc.path)
			if res.Decision.Action != guard.ActionRender || res.Decision.Path != tc.final {
				t.Fatalf("expected render %s, got %+v", tc.final, res.Decision)
			}
			if len(res.Trail) != tc.trail || res.Redirected() != (tc.trail > 1) {
				t.Fatalf("unexpected trail %+v", res.Trail)
			}
		})
	}
}

func TestNavigateKeepsRequestedPath(t *testing.T) {
	user := domain.User{ID: "u1", Username: "ada"}
	n := newNavigatorForTest(newFakeSessions(domain.AuthenticatedSession("t", user)))

	res := n.Navigate(context.Background(), "/login?next=/notes")
	if !res.Redirected() || res.Requested != "/login" || res.Decision.Path != "/dashboard" {
		t.Fatalf("unexpected result requested=%q final=%q trail=%d", res.Requested, res.Decision.Path, len(res.Trail))
	}

	res = n.Navigate(context.Background(), "/notes/")
	if res.Redirected() || res.Requested != "/notes" {
		t.Fatalf("unexpected result requested=%q final=%q", res.Requested, res.Decision.Path)
	}
}

func TestNavigateDefersWhileResolving(t *testing.T) {
	n := newNavigatorForTest(newFakeSessions(domain.ResolvingSession("t")))
	res := n.Navigate(context.Background(), "/dashboard")
	if res.Decision.Action != guard.ActionDefer {
		t.Fatalf("expected defer, got %+v", res.Decision)
	}
}

func TestOpenWaitsForResolution(t *testing.T) {
	sessions := newFakeSessions(domain.ResolvingSession("t"))
	n := newNavigatorForTest(sessions)

	go func() {
		time.Sleep(10 * time.Millisecond)
		sessions.finish(domain.AnonymousSession())
	}()
	res, err := n.Open(context.Background(), "/dashboard")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if res.Decision.Path != "/login" || res.Session.Status != domain.StatusAnonymous {
		t.Fatalf("expected redirect to login after demotion, got %+v", res)
	}
}

func TestOpenHonoursContext(t *testing.T) {
	n := newNavigatorForTest(newFakeSessions(domain.ResolvingSession("t")))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	res, err := n.Open(ctx, "/notes")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if res.Decision.Action != guard.ActionDefer {
		t.Fatalf("expected deferred decision, got %+v", res.Decision)
	}
}
