package postgres

import (
	"context"

	"github.com/theo/champion-teams-website/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type synergyRepository struct {
	db *gorm.DB
}

func NewSynergyRepository(db *gorm.DB) *synergyRepository {
	return &synergyRepository{db: db}
}

func (r *synergyRepository) Upsert(ctx context.Context, synergy *domain.SynergyDefinition) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(synergy).Error
}

func (r *synergyRepository) UpsertMany(ctx context.Context, synergies []*domain.SynergyDefinition) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(synergies).Error
}

func (r *synergyRepository) GetAll(ctx context.Context) ([]*domain.SynergyDefinition, error) {
	var synergies []*domain.SynergyDefinition
	err := r.db.WithContext(ctx).Order("name ASC").Find(&synergies).Error
	if err != nil {
		return nil, err
	}
	return synergies, nil
}

func (r *synergyRepository) GetByID(ctx context.Context, id string) (*domain.SynergyDefinition, error) {
	var synergy domain.SynergyDefinition
	err := r.db.WithContext(ctx).First(&synergy, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &synergy, nil
}
