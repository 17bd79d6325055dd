package postgres

import (
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.ChampionDefinition{},
		&domain.SynergyDefinition{},
		&domain.LegacyPieceDefinition{},
		&domain.RosterEntry{},
		&domain.SavedTeam{},
		&domain.SharedTeam{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:        NewUserRepository(db),
		Session:     NewSessionRepository(db),
		Champion:    NewChampionRepository(db),
		Synergy:     NewSynergyRepository(db),
		LegacyPiece: NewLegacyPieceRepository(db),
		Roster:      NewRosterRepository(db),
		Team:        NewTeamRepository(db),
		Share:       NewShareRepository(db),
	}
}
