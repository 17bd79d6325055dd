package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ChampionDefinition is a reference-collection entry: the champion as the
// game defines it, before any player investment.
type ChampionDefinition struct {
	ID          string         `json:"id" gorm:"primaryKey"`          // e.g., "wonder-woman"
	Name        string         `json:"name" gorm:"not null"`          // Display name
	Class       string         `json:"class" gorm:"not null"`         // "N/A" allowed
	BaseRarity  string         `json:"baseRarity" gorm:"not null"`    // Epic/Legendary/Mythic/Limited Mythic
	Healer      bool           `json:"healer" gorm:"not null"`
	SynergyTags datatypes.JSON `json:"synergyTags" gorm:"type:jsonb"` // ["Justice League", ...]
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// TagList decodes the champion's synergy tags.
func (c *ChampionDefinition) TagList() ([]string, error) {
	if len(c.SynergyTags) == 0 {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(c.SynergyTags, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

type ChampionClass string

const (
	ClassTank       ChampionClass = "Tank"
	ClassBlaster    ChampionClass = "Blaster"
	ClassController ChampionClass = "Controller"
	ClassFighter    ChampionClass = "Fighter"
	ClassSupport    ChampionClass = "Support"
	ClassMystic     ChampionClass = "Mystic"
)
