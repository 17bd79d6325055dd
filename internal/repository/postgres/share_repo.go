package postgres

import (
	"context"

	"github.com/theo/champion-teams-website/internal/domain"
	"gorm.io/gorm"
)

type shareRepository struct {
	db *gorm.DB
}

func NewShareRepository(db *gorm.DB) *shareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, share *domain.SharedTeam) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *shareRepository) GetByCode(ctx context.Context, code string) (*domain.SharedTeam, error) {
	var share domain.SharedTeam
	err := r.db.WithContext(ctx).First(&share, "share_code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}
