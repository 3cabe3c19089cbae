package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type GormSettingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) SettingRepository { return &GormSettingRepository{db: db} }

func (r *GormSettingRepository) Get(ctx context.Context, key string) (string, error) {
	var s domain.Setting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "setting", "get", "not_found")
			return "", ErrSettingNotFound
		}
		observability.RecordRepositoryOperation(ctx, "setting", "get", "error")
		return "", err
	}
	observability.RecordRepositoryOperation(ctx, "setting", "get", "success")
	return s.Value, nil
}

// Put upserts so that a repeated login replaces the stored value in place.
func (r *GormSettingRepository) Put(ctx context.Context, key, value string) error {
	s := domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "setting", "put", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "setting", "put", "success")
	return nil
}

// Delete is idempotent: removing a missing key is not an error.
func (r *GormSettingRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&domain.Setting{}).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "setting", "delete", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "setting", "delete", "success")
	return nil
}
