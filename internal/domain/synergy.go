package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SynergyDefinition is a reference-collection entry describing a team
// bonus. Name is the key champions' synergy tags match against. Tiers is a
// JSON list of {countRequired, description}; empty means a simple synergy
// gated by the global activation minimum.
type SynergyDefinition struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;not null"`
	BonusType   string         `json:"bonusType" gorm:"not null"` // "flat" or "percentage"
	BonusValue  float64        `json:"bonusValue" gorm:"not null"`
	Description string         `json:"description"`
	Tiers       datatypes.JSON `json:"tiers" gorm:"type:jsonb"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// LegacyPieceDefinition is a reference-collection entry for an equippable
// legacy piece.
type LegacyPieceDefinition struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	BaseRarity  string    `json:"baseRarity" gorm:"not null"` // rarity the piece drops at
	Restriction string    `json:"restriction"`                // e.g., "Mystic champions only"
	UpdatedAt   time.Time `json:"updatedAt"`
}
