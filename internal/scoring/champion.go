package scoring

type GearSlot string

const (
	SlotHead  GearSlot = "head"
	SlotArms  GearSlot = "arms"
	SlotLegs  GearSlot = "legs"
	SlotChest GearSlot = "chest"
	SlotWaist GearSlot = "waist"
)

// GearSlots lists the five equipment slots every champion has.
var GearSlots = []GearSlot{SlotHead, SlotArms, SlotLegs, SlotChest, SlotWaist}

type BonusType string

const (
	BonusTypeFlat       BonusType = "flat"
	BonusTypePercentage BonusType = "percentage"
)

// Champion is a fully resolved roster member ready for scoring. Ingestion
// validates names against the balance table before building these; the
// score functions themselves substitute neutral values for anything unknown.
type Champion struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Class       string              `json:"class"`
	BaseRarity  string              `json:"baseRarity"`
	Healer      bool                `json:"healer"`
	SynergyTags []string            `json:"synergyTags"`
	StarTier    string              `json:"starTier"`
	ForceLevel  int                 `json:"forceLevel"`
	Gear        map[GearSlot]string `json:"gear"`
	LegacyPiece *LegacyPiece        `json:"legacyPiece,omitempty"`

	// IndividualScore is the cached output of IndividualScore; it is only
	// meaningful for the balance snapshot it was computed under.
	IndividualScore float64 `json:"individualScore"`
}

// LegacyPiece is an optional artifact with its own rarity and star
// progression.
type LegacyPiece struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	StarTier string `json:"starTier"`
}

type SynergyTier struct {
	CountRequired int    `json:"countRequired"`
	Description   string `json:"description"`
}

// Synergy is a team bonus keyed by champion tags. An empty Tiers slice
// means a simple synergy gated by the global member minimum; a non-empty
// slice means a tiered synergy whose bonus scales with the matched tier.
type Synergy struct {
	Name        string        `json:"name"`
	BonusType   BonusType     `json:"bonusType"`
	BonusValue  float64       `json:"bonusValue"`
	Description string        `json:"description"`
	Tiers       []SynergyTier `json:"tiers,omitempty"`
}

// ActivationThreshold returns the member count needed to activate the
// synergy: the lowest tier requirement, or minMembers for simple synergies.
func (s Synergy) ActivationThreshold(minMembers int) int {
	if len(s.Tiers) == 0 {
		return minMembers
	}
	min := s.Tiers[0].CountRequired
	for _, tier := range s.Tiers[1:] {
		if tier.CountRequired < min {
			min = tier.CountRequired
		}
	}
	return min
}

// bestTier returns the highest tier whose requirement is met, or nil.
func (s Synergy) bestTier(count int) *SynergyTier {
	var best *SynergyTier
	for i := range s.Tiers {
		tier := &s.Tiers[i]
		if tier.CountRequired > count {
			continue
		}
		if best == nil || tier.CountRequired > best.CountRequired {
			best = tier
		}
	}
	return best
}
