package postgres

import (
	"context"

	"github.com/theo/champion-teams-website/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type legacyPieceRepository struct {
	db *gorm.DB
}

func NewLegacyPieceRepository(db *gorm.DB) *legacyPieceRepository {
	return &legacyPieceRepository{db: db}
}

func (r *legacyPieceRepository) Upsert(ctx context.Context, piece *domain.LegacyPieceDefinition) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(piece).Error
}

func (r *legacyPieceRepository) UpsertMany(ctx context.Context, pieces []*domain.LegacyPieceDefinition) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(pieces).Error
}

func (r *legacyPieceRepository) GetAll(ctx context.Context) ([]*domain.LegacyPieceDefinition, error) {
	var pieces []*domain.LegacyPieceDefinition
	err := r.db.WithContext(ctx).Order("name ASC").Find(&pieces).Error
	if err != nil {
		return nil, err
	}
	return pieces, nil
}

func (r *legacyPieceRepository) GetByID(ctx context.Context, id string) (*domain.LegacyPieceDefinition, error) {
	var piece domain.LegacyPieceDefinition
	err := r.db.WithContext(ctx).First(&piece, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &piece, nil
}
