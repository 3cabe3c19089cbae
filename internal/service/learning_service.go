package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

// LearningService covers the authenticated actions on the course pages and
// the AI tools page.
type LearningService struct {
	backend  LearningBackend
	sessions *SessionStore
}

func NewLearningService(backend LearningBackend, sessions *SessionStore) *LearningService {
	return &LearningService{backend: backend, sessions: sessions}
}

func (s *LearningService) token() (string, error) {
	cur := s.sessions.Snapshot()
	if !cur.Authenticated() {
		return "", ErrNotAuthenticated
	}
	return cur.Token, nil
}

func (s *LearningService) Enroll(ctx context.Context, courseID string, acceptTerms bool) (domain.Enrollment, error) {
	token, err := s.token()
	if err != nil {
		return domain.Enrollment{}, err
	}
	return s.backend.Enroll(ctx, token, courseID, acceptTerms)
}

func (s *LearningService) MarkModule(ctx context.Context, courseID, moduleID string, completed bool) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.backend.UpdateProgress(ctx, token, domain.ModuleProgress{CourseID: courseID, ModuleID: moduleID, Completed: completed})
}

func (s *LearningService) SolveMath(ctx context.Context, expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return "", fmt.Errorf("%w: expression", ErrMissingField)
	}
	token, err := s.token()
	if err != nil {
		return "", err
	}
	return s.backend.SolveMath(ctx, token, expression)
}
