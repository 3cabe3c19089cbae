package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) error
	FindByIDForOwner(ctx context.Context, ownerID, noteID string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	DeleteByIDForOwner(ctx context.Context, ownerID, noteID string) (bool, error)
}

type GormNoteRepository struct{ db *gorm.DB }

func NewNoteRepository(db *gorm.DB) NoteRepository { return &GormNoteRepository{db: db} }

func (r *GormNoteRepository) Create(ctx context.Context, n *domain.Note) error {
	err := r.db.WithContext(ctx).Create(n).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "note", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "note", "create", "success")
	return nil
}

func (r *GormNoteRepository) FindByIDForOwner(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	var n domain.Note
	err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, noteID).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "note", "find_by_id_for_owner", "not_found")
			return nil, ErrNoteNotFound
		}
		observability.RecordRepositoryOperation(ctx, "note", "find_by_id_for_owner", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "note", "find_by_id_for_owner", "success")
	return &n, nil
}

func (r *GormNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	var notes []domain.Note
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&notes).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "note", "list_by_owner", "error")
		return notes, err
	}
	observability.RecordRepositoryOperation(ctx, "note", "list_by_owner", "success")
	return notes, nil
}

func (r *GormNoteRepository) DeleteByIDForOwner(ctx context.Context, ownerID, noteID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, noteID).Delete(&domain.Note{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "note", "delete_by_id_for_owner", "error")
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "note", "delete_by_id_for_owner", "not_found")
		return false, nil
	}
	observability.RecordRepositoryOperation(ctx, "note", "delete_by_id_for_owner", "success")
	return true, nil
}
