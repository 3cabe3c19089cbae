package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
)

const (
	resolveClassNone           = "none"
	resolveClassRejected       = "rejected"
	resolveClassUnreachable    = "unreachable"
	resolveClassInvalidPayload = "invalid_payload"
	resolveClassCanceled       = "canceled"
)

// SessionStore owns the process session. Every change replaces the whole
// domain.Session value; readers take Snapshot.
//
// Mutations are serialized by writeMu, which is held across persistence so a
// late resolution can never erase a token written by a newer Login.
type SessionStore struct {
	tokens   TokenStore
	resolver IdentityResolver
	logger   *slog.Logger

	writeMu sync.Mutex

	mu       sync.RWMutex
	session  domain.Session
	gen      uint64
	resolved bool
	pending  []domain.Session
	subs     map[uint64]func(domain.Session)
	nextSub  uint64

	notifyMu sync.Mutex
	flight   singleflight.Group

	// lookup state for the shared Resolve, guarded by mu
	lookupCtx    context.Context
	lookupCancel context.CancelFunc
	waiters      int
	done     chan struct{}
	doneOnce sync.Once
}

// NewSessionStore reads the persisted token. A token puts the store in
// resolving; no token or an unreadable store starts anonymous.
func NewSessionStore(ctx context.Context, tokens TokenStore, resolver IdentityResolver, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SessionStore{
		tokens:   tokens,
		resolver: resolver,
		logger:   logger,
		subs:     make(map[uint64]func(domain.Session)),
		done:     make(chan struct{}),
	}
	token, err := tokens.Load(ctx)
	switch {
	case err == nil:
		s.session = domain.ResolvingSession(token)
	case errors.Is(err, ErrTokenNotFound):
		s.session = domain.AnonymousSession()
	default:
		logger.WarnContext(ctx, "token store unreadable, starting anonymous", "backend", tokens.Backend(), "error", err)
		s.session = domain.AnonymousSession()
	}
	if s.session.Status != domain.StatusResolving {
		s.closeDone()
	}
	return s
}

func (s *SessionStore) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Done is closed once the session has left resolving.
func (s *SessionStore) Done() <-chan struct{} { return s.done }

// Subscribe registers fn for every future session value. Callbacks run
// outside the store locks in mutation order and may call back into the store.
func (s *SessionStore) Subscribe(fn func(domain.Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Resolve validates a persisted token against the backend once. Concurrent
// callers share one lookup, which runs detached from any single caller and is
// abandoned only when every waiting caller's ctx has ended. A caller whose ctx
// ends returns early with the current snapshot; an abandoned lookup drops its
// result and a later Resolve may try again.
func (s *SessionStore) Resolve(ctx context.Context) domain.Session {
	lookupCtx := s.join(ctx)
	defer s.leave()
	for {
		ch := s.flight.DoChan("resolve", func() (any, error) {
			s.resolve(lookupCtx)
			return nil, nil
		})
		select {
		case <-ch:
		case <-ctx.Done():
			s.flush()
			return s.Snapshot()
		}
		// The call joined may have been started by callers that all gave up.
		s.mu.RLock()
		done := s.resolved
		s.mu.RUnlock()
		if done || ctx.Err() != nil {
			break
		}
	}
	s.flush()
	return s.Snapshot()
}

func (s *SessionStore) join(ctx context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupCtx == nil {
		s.lookupCtx, s.lookupCancel = context.WithCancel(context.WithoutCancel(ctx))
	}
	s.waiters++
	return s.lookupCtx
}

func (s *SessionStore) leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		s.lookupCancel()
		s.lookupCtx, s.lookupCancel = nil, nil
	}
}

func (s *SessionStore) resolve(ctx context.Context) {
	s.mu.RLock()
	done := s.resolved
	cur := s.session
	gen := s.gen
	s.mu.RUnlock()
	if done {
		return
	}
	if cur.Status != domain.StatusResolving {
		s.markResolved()
		if cur.Status == domain.StatusAnonymous && gen == 0 {
			observability.RecordSessionResolve(ctx, "no_token", resolveClassNone)
		}
		return
	}

	spanCtx, span := observability.StartSpan(ctx, "session.resolve", attribute.String("token_store", s.tokens.Backend()))
	user, err := s.resolver.Me(spanCtx, cur.Token)
	observability.EndSpan(span, err)
	if ctx.Err() != nil {
		s.logger.DebugContext(ctx, "session resolution abandoned")
		observability.RecordSessionResolve(ctx, "abandoned", resolveClassCanceled)
		return
	}

	s.writeMu.Lock()
	s.mu.RLock()
	superseded := s.gen != gen
	s.mu.RUnlock()
	if superseded {
		s.writeMu.Unlock()
		s.markResolved()
		observability.RecordSessionResolve(ctx, "superseded", resolveClassNone)
		return
	}

	var next domain.Session
	if err == nil {
		next = domain.AuthenticatedSession(cur.Token, user)
		observability.RecordSessionResolve(ctx, "authenticated", resolveClassNone)
		observability.Audit(ctx, s.logger, "session.resolved", "user_id", user.ID)
	} else {
		class := classifyResolveError(err)
		if delErr := s.tokens.Delete(ctx); delErr != nil {
			s.logger.WarnContext(ctx, "erase rejected token failed", "backend", s.tokens.Backend(), "error", delErr)
		}
		next = domain.AnonymousSession()
		observability.RecordSessionResolve(ctx, "demoted", class)
		observability.Audit(ctx, s.logger, "session.demoted", "class", class, "error", err.Error())
	}
	s.publish(ctx, next, true)
	s.writeMu.Unlock()
}

// Login adopts a token and profile returned by a successful login or signup.
// It never calls the backend.
func (s *SessionStore) Login(ctx context.Context, token string, user domain.User) domain.Session {
	if token == "" {
		s.logger.WarnContext(ctx, "login ignored: empty token")
		return s.Snapshot()
	}
	s.writeMu.Lock()
	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.ErrorContext(ctx, "persist token failed", "backend", s.tokens.Backend(), "error", err)
	}
	next := domain.AuthenticatedSession(token, user)
	s.publish(ctx, next, false)
	s.writeMu.Unlock()
	observability.Audit(ctx, s.logger, "session.login", "user_id", user.ID)
	s.flush()
	return next
}

// Logout always ends in anonymous, even if the token cannot be erased.
func (s *SessionStore) Logout(ctx context.Context) domain.Session {
	s.writeMu.Lock()
	if err := s.tokens.Delete(ctx); err != nil {
		s.logger.ErrorContext(ctx, "erase token failed", "backend", s.tokens.Backend(), "error", err)
	}
	next := domain.AnonymousSession()
	s.publish(ctx, next, false)
	s.writeMu.Unlock()
	observability.Audit(ctx, s.logger, "session.logout")
	s.flush()
	return next
}

// publish installs next and queues it for subscribers. Caller holds writeMu.
func (s *SessionStore) publish(ctx context.Context, next domain.Session, fromResolve bool) {
	s.mu.Lock()
	s.session = next
	if !fromResolve {
		s.gen++
	}
	s.pending = append(s.pending, next)
	s.mu.Unlock()
	observability.RecordSessionTransition(ctx, string(next.Status))
	if next.Status != domain.StatusResolving {
		s.markResolved()
	}
}

func (s *SessionStore) markResolved() {
	s.mu.Lock()
	s.resolved = true
	s.mu.Unlock()
	s.closeDone()
}

func (s *SessionStore) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// flush delivers queued values. A goroutine that loses the TryLock leaves its
// values to the current drainer, which rechecks the queue after unlocking.
func (s *SessionStore) flush() {
	for {
		if !s.notifyMu.TryLock() {
			return
		}
		for {
			s.mu.Lock()
			if len(s.pending) == 0 {
				s.mu.Unlock()
				break
			}
			next := s.pending[0]
			s.pending = s.pending[1:]
			subs := make([]func(domain.Session), 0, len(s.subs))
			for _, fn := range s.subs {
				subs = append(subs, fn)
			}
			s.mu.Unlock()
			for _, fn := range subs {
				fn(next)
			}
		}
		s.notifyMu.Unlock()

		s.mu.RLock()
		empty := len(s.pending) == 0
		s.mu.RUnlock()
		if empty {
			return
		}
	}
}

func classifyResolveError(err error) string {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		return resolveClassRejected
	case errors.Is(err, api.ErrInvalidPayload):
		return resolveClassInvalidPayload
	default:
		return resolveClassUnreachable
	}
}
