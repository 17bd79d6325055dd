package scoring

import "fmt"

const (
	RarityEpic          = "Epic"
	RarityLegendary     = "Legendary"
	RarityMythic        = "Mythic"
	RarityLimitedMythic = "Limited Mythic"
)

const (
	GearNone      = "None"
	GearCommon    = "Common"
	GearUncommon  = "Uncommon"
	GearRare      = "Rare"
	GearEpic      = "Epic"
	GearLegendary = "Legendary"
	GearMythic    = "Mythic"
)

const (
	LegacyNone       = "None"
	LegacyEpic       = "Epic"
	LegacyLegendary  = "Legendary"
	LegacyMythic     = "Mythic"
	LegacyMythicPlus = "Mythic+"
)

const TierUnlocked = "Unlocked"

// ClassNone marks champions without a class; they never count toward
// class diversity.
const ClassNone = "N/A"

const (
	MinForceLevel = 0
	MaxForceLevel = 5
)

// StarTiers lists champion progression tiers in ascending order: Unlocked,
// then 1-5 stars in White, Blue, Purple and Gold, then Red 1-3.
var StarTiers = buildStarTiers()

func buildStarTiers() []string {
	tiers := []string{TierUnlocked}
	for _, color := range []string{"White", "Blue", "Purple", "Gold"} {
		for star := 1; star <= 5; star++ {
			tiers = append(tiers, fmt.Sprintf("%s %d-Star", color, star))
		}
	}
	for star := 1; star <= 3; star++ {
		tiers = append(tiers, fmt.Sprintf("Red %d-Star", star))
	}
	return tiers
}

// Constants is the declarative balance table every score derives from.
// Lookups into the maps fall back to neutral values (0 for additive
// modifiers, 1.0 for the star multiplier) so stale roster data degrades
// instead of failing.
type Constants struct {
	RarityBaseScores         map[string]float64 `yaml:"rarityBaseScores" json:"rarityBaseScores"`
	StarMultipliers          map[string]float64 `yaml:"starMultipliers" json:"starMultipliers"`
	GearModifiers            map[string]float64 `yaml:"gearModifiers" json:"gearModifiers"`
	LegacyRarityModifiers    map[string]float64 `yaml:"legacyRarityModifiers" json:"legacyRarityModifiers"`
	LegacyStarModifiers      map[string]float64 `yaml:"legacyStarModifiers" json:"legacyStarModifiers"`
	ForceModifiers           map[int]float64    `yaml:"forceModifiers" json:"forceModifiers"`
	SynergyTagModifier       float64            `yaml:"synergyTagModifier" json:"synergyTagModifier"`
	MinSynergyMembers        int                `yaml:"minSynergyMembers" json:"minSynergyMembers"`
	DepthBonusPerMember      float64            `yaml:"depthBonusPerMember" json:"depthBonusPerMember"`
	ClassDiversityMultiplier float64            `yaml:"classDiversityMultiplier" json:"classDiversityMultiplier"`
	IndividualScoreWeight    float64            `yaml:"individualScoreWeight" json:"individualScoreWeight"`
}

// Multipliers aligned with StarTiers.
var defaultStarMultipliers = []float64{
	1.00,                         // Unlocked
	1.00, 1.05, 1.10, 1.15, 1.20, // White
	1.30, 1.40, 1.50, 1.60, 1.70, // Blue
	1.85, 2.00, 2.15, 2.30, 2.45, // Purple
	2.65, 2.85, 3.05, 3.25, 3.45, // Gold
	3.70, 3.95, 4.20, // Red
}

// Additive legacy-piece star modifiers aligned with StarTiers; the table
// additionally carries a zero entry for "None".
var defaultLegacyStarModifiers = []float64{
	0.01,                         // Unlocked
	0.02, 0.04, 0.06, 0.08, 0.10, // White
	0.13, 0.16, 0.19, 0.22, 0.25, // Blue
	0.29, 0.33, 0.37, 0.41, 0.45, // Purple
	0.50, 0.55, 0.60, 0.65, 0.70, // Gold
	0.76, 0.82, 0.88, // Red
}

// DefaultConstants returns the shipped balance table. Deployments override
// individual values through the balance file.
func DefaultConstants() Constants {
	star := make(map[string]float64, len(StarTiers))
	legacyStar := make(map[string]float64, len(StarTiers)+1)
	legacyStar[LegacyNone] = 0
	for i, tier := range StarTiers {
		star[tier] = defaultStarMultipliers[i]
		legacyStar[tier] = defaultLegacyStarModifiers[i]
	}

	return Constants{
		RarityBaseScores: map[string]float64{
			RarityEpic:          100,
			RarityLegendary:     200,
			RarityMythic:        400,
			RarityLimitedMythic: 500,
		},
		StarMultipliers: star,
		GearModifiers: map[string]float64{
			GearNone:      0,
			GearCommon:    0.02,
			GearUncommon:  0.04,
			GearRare:      0.08,
			GearEpic:      0.12,
			GearLegendary: 0.16,
			GearMythic:    0.20,
		},
		LegacyRarityModifiers: map[string]float64{
			LegacyNone:       0,
			LegacyEpic:       0.10,
			LegacyLegendary:  0.15,
			LegacyMythic:     0.20,
			LegacyMythicPlus: 0.25,
		},
		LegacyStarModifiers: legacyStar,
		ForceModifiers: map[int]float64{
			0: 0,
			1: 0.05,
			2: 0.10,
			3: 0.15,
			4: 0.20,
			5: 0.25,
		},
		SynergyTagModifier:       0.03,
		MinSynergyMembers:        3,
		DepthBonusPerMember:      25,
		ClassDiversityMultiplier: 1.10,
		IndividualScoreWeight:    0.1,
	}
}
