package scoring

import (
	"errors"
	"fmt"
	"slices"
)

// TeamSize is the fixed number of members in a team.
const TeamSize = 5

// diversityClassCount is the distinct-class threshold for the diversity
// multiplier.
const diversityClassCount = 4

var (
	ErrTeamSize        = errors.New("team must have exactly five members")
	ErrDuplicateMember = errors.New("team members must be distinct champions")
)

// ActivatedSynergy describes one synergy that fired during evaluation.
type ActivatedSynergy struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BonusType   BonusType `json:"bonusType"`
	BonusValue  float64   `json:"bonusValue"`
	MemberCount int       `json:"memberCount"`

	// CalculatedBonus is the points this synergy added on its own;
	// DepthBonus is the extra for members beyond the activation threshold.
	CalculatedBonus float64 `json:"calculatedBonus"`
	DepthBonus      float64 `json:"depthBonus"`
}

// Breakdown itemizes a team score. BaseScoreSum + PercentageBonus +
// FlatBonus + DepthBonus = Subtotal, and Subtotal + DiversityBonus equals
// the evaluation's TotalScore.
type Breakdown struct {
	BaseScoreSum    float64 `json:"baseScoreSum"`
	PercentageBonus float64 `json:"percentageBonus"`
	FlatBonus       float64 `json:"flatBonus"`
	DepthBonus      float64 `json:"depthBonus"`
	Subtotal        float64 `json:"subtotal"`
	DiversityBonus  float64 `json:"diversityBonus"`
}

// TeamEvaluation is the full scoring result for one five-member team.
type TeamEvaluation struct {
	Members          []Champion         `json:"members"`
	TotalScore       float64            `json:"totalScore"`
	ComparisonScore  float64            `json:"comparisonScore"`
	BaseScoreSum     float64            `json:"baseScoreSum"`
	ActiveSynergies  []ActivatedSynergy `json:"activeSynergies"`
	UniqueClassCount int                `json:"uniqueClassCount"`
	DiversityApplied bool               `json:"diversityApplied"`
	Breakdown        Breakdown          `json:"breakdown"`
}

// EvaluateTeam scores a team of exactly five distinct champions against the
// given synergy definitions and balance snapshot. Members' cached
// individual scores are taken as-is; callers recompute them when inputs or
// balance change.
//
// Percentage synergies compound sequentially on a running subtotal seeded
// with the base score sum, before any flat or tiered bonus is added. Tiered
// bonuses are always flat: matched tier requirement times the bonus value.
// Evaluation order is fixed, so equal inputs always produce equal outputs.
func EvaluateTeam(members []Champion, synergies []Synergy, c Constants) (TeamEvaluation, error) {
	if len(members) != TeamSize {
		return TeamEvaluation{}, fmt.Errorf("%w (got %d)", ErrTeamSize, len(members))
	}
	seen := make(map[string]bool, TeamSize)
	for _, m := range members {
		if seen[m.ID] {
			return TeamEvaluation{}, fmt.Errorf("%w: %s appears twice", ErrDuplicateMember, m.ID)
		}
		seen[m.ID] = true
	}

	var base float64
	for _, m := range members {
		base += m.IndividualScore
	}

	counts := make(map[string]int, len(synergies))
	for _, syn := range synergies {
		for _, m := range members {
			if slices.Contains(m.SynergyTags, syn.Name) {
				counts[syn.Name]++
			}
		}
	}

	var active []ActivatedSynergy
	var depthTotal float64

	activate := func(syn Synergy, desc string, count int, bonus float64) {
		entry := ActivatedSynergy{
			Name:            syn.Name,
			Description:     desc,
			BonusType:       syn.BonusType,
			BonusValue:      syn.BonusValue,
			MemberCount:     count,
			CalculatedBonus: bonus,
		}
		if extra := count - syn.ActivationThreshold(c.MinSynergyMembers); extra > 0 {
			entry.DepthBonus = float64(extra) * c.DepthBonusPerMember
			depthTotal += entry.DepthBonus
		}
		active = append(active, entry)
	}

	// Percentage synergies first: each compounds on the running subtotal.
	running := base
	for _, syn := range synergies {
		if syn.BonusType != BonusTypePercentage || len(syn.Tiers) > 0 {
			continue
		}
		count := counts[syn.Name]
		if count < c.MinSynergyMembers {
			continue
		}
		bonus := running * syn.BonusValue / 100
		running += bonus
		activate(syn, syn.Description, count, bonus)
	}
	percentageTotal := running - base

	var flatTotal float64
	for _, syn := range synergies {
		count := counts[syn.Name]
		switch {
		case len(syn.Tiers) > 0:
			tier := syn.bestTier(count)
			if tier == nil {
				continue
			}
			desc := tier.Description
			if desc == "" {
				desc = syn.Description
			}
			bonus := float64(tier.CountRequired) * syn.BonusValue
			flatTotal += bonus
			activate(syn, desc, count, bonus)
		case syn.BonusType == BonusTypeFlat:
			if count < c.MinSynergyMembers {
				continue
			}
			flatTotal += syn.BonusValue
			activate(syn, syn.Description, count, syn.BonusValue)
		}
	}

	subtotal := running + flatTotal + depthTotal

	classes := make(map[string]bool, TeamSize)
	for _, m := range members {
		if m.Class != "" && m.Class != ClassNone {
			classes[m.Class] = true
		}
	}

	var diversityBonus float64
	diversityApplied := false
	if len(classes) >= diversityClassCount {
		diversityBonus = subtotal * (c.ClassDiversityMultiplier - 1)
		diversityApplied = true
	}

	total := subtotal + diversityBonus

	return TeamEvaluation{
		Members:          slices.Clone(members),
		TotalScore:       total,
		ComparisonScore:  total + base*c.IndividualScoreWeight,
		BaseScoreSum:     base,
		ActiveSynergies:  active,
		UniqueClassCount: len(classes),
		DiversityApplied: diversityApplied,
		Breakdown: Breakdown{
			BaseScoreSum:    base,
			PercentageBonus: percentageTotal,
			FlatBonus:       flatTotal,
			DepthBonus:      depthTotal,
			Subtotal:        subtotal,
			DiversityBonus:  diversityBonus,
		},
	}, nil
}
