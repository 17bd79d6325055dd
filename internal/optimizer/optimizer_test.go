package optimizer_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theo/champion-teams-website/internal/optimizer"
	"github.com/theo/champion-teams-website/internal/scoring"
)

func champ(id, rarity string, tags ...string) scoring.Champion {
	return scoring.Champion{
		ID:          id,
		Name:        id,
		Class:       scoring.ClassNone,
		BaseRarity:  rarity,
		SynergyTags: tags,
		StarTier:    scoring.TierUnlocked,
	}
}

func healer(id, rarity string, tags ...string) scoring.Champion {
	ch := champ(id, rarity, tags...)
	ch.Healer = true
	return ch
}

func memberIDs(eval scoring.TeamEvaluation) []string {
	ids := make([]string, len(eval.Members))
	for i, m := range eval.Members {
		ids[i] = m.ID
	}
	return ids
}

func TestFindOptimalTeam_ExactRosterSize(t *testing.T) {
	c := scoring.DefaultConstants()
	roster := []scoring.Champion{
		champ("a", scoring.RarityEpic),
		champ("b", scoring.RarityEpic),
		champ("c", scoring.RarityLegendary),
		champ("d", scoring.RarityMythic),
		champ("e", scoring.RarityEpic),
	}

	best, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, optimizer.Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, memberIDs(best))

	// The only candidate must score identically to a direct evaluation
	scored := make([]scoring.Champion, len(roster))
	copy(scored, roster)
	scoring.ScoreRoster(scored, c)
	direct, err := scoring.EvaluateTeam(scored, nil, c)
	require.NoError(t, err)
	assert.Equal(t, direct.ComparisonScore, best.ComparisonScore)
}

func TestFindOptimalTeam_PicksStrongestSubset(t *testing.T) {
	c := scoring.DefaultConstants()
	roster := []scoring.Champion{
		champ("m1", scoring.RarityMythic),
		champ("e1", scoring.RarityEpic),
		champ("m2", scoring.RarityMythic),
		champ("m3", scoring.RarityMythic),
		champ("e2", scoring.RarityEpic),
		champ("m4", scoring.RarityMythic),
		champ("m5", scoring.RarityMythic),
	}

	best, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, optimizer.Options{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"m1", "m2", "m3", "m4", "m5"}, memberIDs(best))
}

func TestFindOptimalTeam_TiesKeepFirstSeen(t *testing.T) {
	c := scoring.DefaultConstants()

	// Five interchangeable tagged Epics plus one untagged Legendary: every
	// four-Epic-plus-Legendary team scores identically, so the winner must
	// be the lexicographically first one
	roster := []scoring.Champion{
		champ("e1", scoring.RarityEpic, "Alliance"),
		champ("e2", scoring.RarityEpic, "Alliance"),
		champ("e3", scoring.RarityEpic, "Alliance"),
		champ("e4", scoring.RarityEpic, "Alliance"),
		champ("e5", scoring.RarityEpic, "Alliance"),
		champ("leg", scoring.RarityLegendary),
	}
	synergies := []scoring.Synergy{{Name: "Alliance", BonusType: scoring.BonusTypePercentage, BonusValue: 100}}

	best, err := optimizer.FindOptimalTeam(context.Background(), roster, synergies, c, optimizer.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"e1", "e2", "e3", "e4", "leg"}, memberIDs(best))
}

func TestFindOptimalTeam_RequireHealer(t *testing.T) {
	c := scoring.DefaultConstants()

	t.Run("healer always included", func(t *testing.T) {
		// The healer is the weakest member but must still make the team
		roster := []scoring.Champion{
			champ("m1", scoring.RarityMythic),
			champ("m2", scoring.RarityMythic),
			champ("m3", scoring.RarityMythic),
			champ("m4", scoring.RarityMythic),
			champ("m5", scoring.RarityMythic),
			healer("med", scoring.RarityEpic),
		}

		best, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, optimizer.Options{RequireHealer: true})
		require.NoError(t, err)
		assert.Contains(t, memberIDs(best), "med")
	})

	t.Run("no healer in roster", func(t *testing.T) {
		roster := []scoring.Champion{
			champ("a", scoring.RarityEpic),
			champ("b", scoring.RarityEpic),
			champ("c", scoring.RarityEpic),
			champ("d", scoring.RarityEpic),
			champ("e", scoring.RarityEpic),
		}

		_, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, optimizer.Options{RequireHealer: true})
		assert.ErrorIs(t, err, optimizer.ErrNoHealerAvailable)
	})

	t.Run("healer candidates counted per healer", func(t *testing.T) {
		roster := []scoring.Champion{
			healer("h1", scoring.RarityEpic),
			healer("h2", scoring.RarityEpic),
			champ("a", scoring.RarityEpic),
			champ("b", scoring.RarityEpic),
			champ("c", scoring.RarityEpic),
			champ("d", scoring.RarityEpic),
		}

		var statuses []string
		opts := optimizer.Options{
			RequireHealer: true,
			Progress:      func(status string, _ float64) { statuses = append(statuses, status) },
		}
		_, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, opts)
		require.NoError(t, err)

		// Two healers over the remaining five: 2 * C(5,4) = 10 candidates,
		// more than the plain C(6,5) = 6 because overlapping healer teams
		// are evaluated once per healer
		require.NotEmpty(t, statuses)
		assert.Equal(t, "Searching 10 candidate teams", statuses[0])
	})
}

func TestFindOptimalTeam_InsufficientRoster(t *testing.T) {
	c := scoring.DefaultConstants()

	small := []scoring.Champion{
		champ("a", scoring.RarityEpic),
		champ("b", scoring.RarityEpic),
		champ("c", scoring.RarityEpic),
		champ("d", scoring.RarityEpic),
	}
	_, err := optimizer.FindOptimalTeam(context.Background(), small, nil, c, optimizer.Options{})
	assert.ErrorIs(t, err, optimizer.ErrInsufficientRoster)

	// Exclusions can shrink an otherwise large enough roster
	five := append(small, champ("e", scoring.RarityEpic))
	_, err = optimizer.FindOptimalTeam(context.Background(), five, nil, c, optimizer.Options{ExcludeIDs: []string{"a"}})
	assert.ErrorIs(t, err, optimizer.ErrInsufficientRoster)
}

func TestFindOptimalTeam_ExcludeIDs(t *testing.T) {
	c := scoring.DefaultConstants()
	roster := []scoring.Champion{
		champ("m1", scoring.RarityMythic),
		champ("a", scoring.RarityEpic),
		champ("b", scoring.RarityEpic),
		champ("c", scoring.RarityEpic),
		champ("d", scoring.RarityEpic),
		champ("e", scoring.RarityEpic),
	}

	best, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, optimizer.Options{ExcludeIDs: []string{"m1"}})
	require.NoError(t, err)

	assert.NotContains(t, memberIDs(best), "m1")
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, memberIDs(best))
}

func TestFindOptimalTeam_ProgressIsMonotonic(t *testing.T) {
	c := scoring.DefaultConstants()

	roster := make([]scoring.Champion, 12)
	for i := range roster {
		roster[i] = champ(fmt.Sprintf("ch%02d", i), scoring.RarityEpic)
	}

	var percents []float64
	opts := optimizer.Options{
		BatchSlice: time.Nanosecond, // force a report at every stride
		Progress:   func(_ string, percent float64) { percents = append(percents, percent) },
	}
	_, err := optimizer.FindOptimalTeam(context.Background(), roster, nil, c, opts)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(percents), 3)
	assert.Equal(t, 5.0, percents[0])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 100.0, percents[len(percents)-1])
}

func TestFindOptimalTeam_Cancellation(t *testing.T) {
	c := scoring.DefaultConstants()

	roster := make([]scoring.Champion, 14)
	for i := range roster {
		roster[i] = champ(fmt.Sprintf("ch%02d", i), scoring.RarityEpic)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := optimizer.Options{BatchSlice: time.Nanosecond}
	_, err := optimizer.FindOptimalTeam(ctx, roster, nil, c, opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSwapMember_RoundTrip(t *testing.T) {
	c := scoring.DefaultConstants()
	synergies := []scoring.Synergy{{Name: "Alliance", BonusType: scoring.BonusTypeFlat, BonusValue: 40}}

	members := []scoring.Champion{
		champ("a", scoring.RarityEpic, "Alliance"),
		champ("b", scoring.RarityEpic, "Alliance"),
		champ("c", scoring.RarityEpic, "Alliance"),
		champ("d", scoring.RarityEpic),
		champ("e", scoring.RarityEpic),
	}
	scoring.ScoreRoster(members, c)
	team, err := scoring.EvaluateTeam(members, synergies, c)
	require.NoError(t, err)

	replacement := champ("f", scoring.RarityMythic, "Alliance")
	swapped, err := optimizer.SwapMember(team, 4, replacement, synergies, c)
	require.NoError(t, err)

	// Swapping must equal evaluating the modified list directly
	manual := make([]scoring.Champion, len(members))
	copy(manual, members)
	manual[4] = replacement
	scoring.ScoreRoster(manual, c)
	direct, err := scoring.EvaluateTeam(manual, synergies, c)
	require.NoError(t, err)

	assert.Equal(t, direct.TotalScore, swapped.TotalScore)
	assert.Equal(t, direct.ComparisonScore, swapped.ComparisonScore)
	assert.Equal(t, "f", swapped.Members[4].ID)

	// The original evaluation is left untouched
	assert.Equal(t, "e", team.Members[4].ID)
}

func TestSwapMember_Validation(t *testing.T) {
	c := scoring.DefaultConstants()

	members := []scoring.Champion{
		champ("a", scoring.RarityEpic),
		champ("b", scoring.RarityEpic),
		champ("c", scoring.RarityEpic),
		champ("d", scoring.RarityEpic),
		champ("e", scoring.RarityEpic),
	}
	scoring.ScoreRoster(members, c)
	team, err := scoring.EvaluateTeam(members, nil, c)
	require.NoError(t, err)

	_, err = optimizer.SwapMember(team, 5, champ("f", scoring.RarityEpic), nil, c)
	assert.ErrorIs(t, err, optimizer.ErrMemberIndex)

	_, err = optimizer.SwapMember(team, -1, champ("f", scoring.RarityEpic), nil, c)
	assert.ErrorIs(t, err, optimizer.ErrMemberIndex)

	// Swapping in a champion already on the team fails validation
	_, err = optimizer.SwapMember(team, 0, champ("e", scoring.RarityEpic), nil, c)
	assert.ErrorIs(t, err, scoring.ErrDuplicateMember)
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, int64(252), optimizer.Binomial(10, 5))
	assert.Equal(t, int64(658008), optimizer.Binomial(40, 5))
	assert.Equal(t, int64(75287520), optimizer.Binomial(100, 5))
	assert.Equal(t, int64(1), optimizer.Binomial(5, 5))
	assert.Equal(t, int64(1), optimizer.Binomial(7, 0))
	assert.Equal(t, int64(0), optimizer.Binomial(4, 5))
}
