package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/theo/champion-teams-website/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByTokenID(ctx context.Context, tokenID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

type ChampionRepository interface {
	Upsert(ctx context.Context, champion *domain.ChampionDefinition) error
	UpsertMany(ctx context.Context, champions []*domain.ChampionDefinition) error
	GetAll(ctx context.Context) ([]*domain.ChampionDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.ChampionDefinition, error)
}

type SynergyRepository interface {
	Upsert(ctx context.Context, synergy *domain.SynergyDefinition) error
	UpsertMany(ctx context.Context, synergies []*domain.SynergyDefinition) error
	GetAll(ctx context.Context) ([]*domain.SynergyDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.SynergyDefinition, error)
}

type LegacyPieceRepository interface {
	Upsert(ctx context.Context, piece *domain.LegacyPieceDefinition) error
	UpsertMany(ctx context.Context, pieces []*domain.LegacyPieceDefinition) error
	GetAll(ctx context.Context) ([]*domain.LegacyPieceDefinition, error)
	GetByID(ctx context.Context, id string) (*domain.LegacyPieceDefinition, error)
}

type RosterRepository interface {
	Create(ctx context.Context, entry *domain.RosterEntry) error
	Update(ctx context.Context, entry *domain.RosterEntry) error
	Delete(ctx context.Context, userID uuid.UUID, championID string) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RosterEntry, error)
	GetEntry(ctx context.Context, userID uuid.UUID, championID string) (*domain.RosterEntry, error)
	ReplaceAll(ctx context.Context, userID uuid.UUID, entries []*domain.RosterEntry) error
}

type TeamRepository interface {
	Create(ctx context.Context, team *domain.SavedTeam) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedTeam, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SavedTeam, error)
	Update(ctx context.Context, team *domain.SavedTeam) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ShareRepository interface {
	Create(ctx context.Context, share *domain.SharedTeam) error
	GetByCode(ctx context.Context, code string) (*domain.SharedTeam, error)
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Champion    ChampionRepository
	Synergy     SynergyRepository
	LegacyPiece LegacyPieceRepository
	Roster      RosterRepository
	Team        TeamRepository
	Share       ShareRepository
}
