package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RosterEntry is one champion in a user's roster together with the
// player's investment in it. Gear maps slot name to gear rarity;
// LegacyPiece is null until one is equipped.
type RosterEntry struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_roster_user_champion"`
	ChampionID  string         `json:"championId" gorm:"not null;uniqueIndex:idx_roster_user_champion"`
	StarTier    string         `json:"starTier" gorm:"not null"`
	ForceLevel  int            `json:"forceLevel" gorm:"not null;default:0"`
	Gear        datatypes.JSON `json:"gear" gorm:"type:jsonb"`        // {"head":"Epic", ...}
	LegacyPiece datatypes.JSON `json:"legacyPiece" gorm:"type:jsonb"` // {"id","rarity","starTier"} or null

	// IndividualScore is cached for the balance version it was computed
	// under; readers recompute when BalanceVersion is stale.
	IndividualScore float64 `json:"individualScore"`
	BalanceVersion  string  `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Champion *ChampionDefinition `json:"champion,omitempty" gorm:"foreignKey:ChampionID"`
}

// EquippedLegacyPiece is the JSON shape stored in RosterEntry.LegacyPiece.
type EquippedLegacyPiece struct {
	ID       string `json:"id"`
	Rarity   string `json:"rarity"`
	StarTier string `json:"starTier"`
}
