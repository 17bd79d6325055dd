package scoring

// IndividualScore computes a champion's standalone power rating:
// rarity base times star multiplier, scaled by an aggregate modifier built
// from gear, legacy piece, force level and synergy tag count.
//
// Unknown rarity names score 0, unknown star tiers multiply by 1.0 and
// unknown modifier names contribute 0. Callers that care report those
// through validation; scoring itself never fails.
func IndividualScore(ch Champion, c Constants) float64 {
	base := c.RarityBaseScores[ch.BaseRarity]

	star, ok := c.StarMultipliers[ch.StarTier]
	if !ok {
		star = 1.0
	}
	core := base * star

	modifier := 1.0
	for _, slot := range GearSlots {
		modifier += c.GearModifiers[ch.Gear[slot]]
	}
	if lp := ch.LegacyPiece; lp != nil && lp.Rarity != LegacyNone {
		modifier += c.LegacyRarityModifiers[lp.Rarity]
		modifier += c.LegacyStarModifiers[lp.StarTier]
	}
	modifier += c.ForceModifiers[ch.ForceLevel]
	modifier += float64(len(ch.SynergyTags)) * c.SynergyTagModifier

	return core * modifier
}

// ScoreRoster recomputes every cached individual score in place against the
// given balance snapshot.
func ScoreRoster(roster []Champion, c Constants) {
	for i := range roster {
		roster[i].IndividualScore = IndividualScore(roster[i], c)
	}
}
