package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"whatsapp_dashboard/internal/models"
)

type FallbackRepository interface {
	Create(ctx context.Context, entry *models.FallbackEntry) error
	// Pending returns entries waiting for replay across all users, oldest first.
	Pending(ctx context.Context, limit int) ([]models.FallbackEntry, error)
	ListByOwner(ctx context.Context, owner models.Owner, pendingOnly bool) ([]models.FallbackEntry, error)
	MarkSynced(ctx context.Context, id uint, at time.Time) error
	RecordFailure(ctx context.Context, id uint, lastError string) error
	MarkDead(ctx context.Context, id uint, at time.Time, lastError string) error
	DeleteByOwner(ctx context.Context, owner models.Owner) (int64, error)
}

type fallbackRepository struct {
	db *gorm.DB
}

func NewFallbackRepository(db *gorm.DB) FallbackRepository {
	return &fallbackRepository{db: db}
}

func (r *fallbackRepository) Create(ctx context.Context, entry *models.FallbackEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func pendingScope(db *gorm.DB) *gorm.DB {
	return db.Where("synced_at IS NULL AND dead_at IS NULL")
}

func ownerScope(owner models.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id <> '' AND user_id = ?) OR (client_id <> '' AND client_id = ?)", owner.UserID, owner.ClientID)
	}
}

func (r *fallbackRepository) Pending(ctx context.Context, limit int) ([]models.FallbackEntry, error) {
	var entries []models.FallbackEntry
	q := r.db.WithContext(ctx).Scopes(pendingScope).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (r *fallbackRepository) ListByOwner(ctx context.Context, owner models.Owner, pendingOnly bool) ([]models.FallbackEntry, error) {
	var entries []models.FallbackEntry
	q := r.db.WithContext(ctx).Scopes(ownerScope(owner))
	if pendingOnly {
		q = q.Scopes(pendingScope)
	}
	err := q.Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *fallbackRepository) MarkSynced(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.FallbackEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"synced_at":  at,
		"last_error": "",
	}).Error
}

func (r *fallbackRepository) RecordFailure(ctx context.Context, id uint, lastError string) error {
	return r.db.WithContext(ctx).Model(&models.FallbackEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastError,
	}).Error
}

func (r *fallbackRepository) MarkDead(ctx context.Context, id uint, at time.Time, lastError string) error {
	return r.db.WithContext(ctx).Model(&models.FallbackEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastError,
		"dead_at":    at,
	}).Error
}

func (r *fallbackRepository) DeleteByOwner(ctx context.Context, owner models.Owner) (int64, error) {
	res := r.db.WithContext(ctx).Scopes(ownerScope(owner)).Delete(&models.FallbackEntry{})
	return res.RowsAffected, res.Error
}
