package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/theo/champion-teams-website/internal/domain"
	"gorm.io/gorm"
)

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) Create(ctx context.Context, entry *domain.RosterEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *rosterRepository) Update(ctx context.Context, entry *domain.RosterEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *rosterRepository) Delete(ctx context.Context, userID uuid.UUID, championID string) error {
	result := r.db.WithContext(ctx).Delete(&domain.RosterEntry{}, "user_id = ? AND champion_id = ?", userID, championID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *rosterRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RosterEntry, error) {
	var entries []*domain.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Champion").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *rosterRepository) GetEntry(ctx context.Context, userID uuid.UUID, championID string) (*domain.RosterEntry, error) {
	var entry domain.RosterEntry
	err := r.db.WithContext(ctx).
		Preload("Champion").
		First(&entry, "user_id = ? AND champion_id = ?", userID, championID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceAll swaps a user's whole roster in one transaction, used by
// imports.
func (r *rosterRepository) ReplaceAll(ctx context.Context, userID uuid.UUID, entries []*domain.RosterEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.RosterEntry{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(entries).Error
	})
}
