package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/repository"
)

// NoteService stores notes locally, scoped to the signed-in user.
type NoteService struct {
	repo     repository.NoteRepository
	sessions *SessionStore
}

func NewNoteService(repo repository.NoteRepository, sessions *SessionStore) *NoteService {
	return &NoteService{repo: repo, sessions: sessions}
}

func (s *NoteService) owner() (string, error) {
	cur := s.sessions.Snapshot()
	if !cur.Authenticated() || cur.User.ID == "" {
		return "", ErrNotAuthenticated
	}
	return cur.User.ID, nil
}

func (s *NoteService) Add(ctx context.Context, title, content string) (*domain.Note, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}
	now := time.Now().UTC()
	n := &domain.Note{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, owner)
}

func (s *NoteService) Get(ctx context.Context, id string) (*domain.Note, error) {
	owner, err := s.owner()
	if err != nil {
		return nil, err
	}
	return s.repo.FindByIDForOwner(ctx, owner, id)
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	owner, err := s.owner()
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteByIDForOwner(ctx, owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrNoteNotFound
	}
	return nil
}
