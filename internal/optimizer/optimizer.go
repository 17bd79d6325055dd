package optimizer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/theo/champion-teams-website/internal/scoring"
)

// DefaultBatchSlice bounds how long one evaluation batch runs before
// progress is reported and cancellation is polled.
const DefaultBatchSlice = 25 * time.Millisecond

// batchCheckStride is how many candidates are evaluated between clock
// reads.
const batchCheckStride = 128

var (
	ErrInsufficientRoster  = errors.New("at least five eligible champions are required")
	ErrNoHealerAvailable   = errors.New("no healer available in roster")
	ErrNoValidCombinations = errors.New("no valid team combinations could be generated")
	ErrMemberIndex         = errors.New("member index out of range")
)

// ProgressFunc receives a human-readable status and a percentage that
// never decreases over the life of one search.
type ProgressFunc func(status string, percent float64)

// Options controls a single search.
type Options struct {
	// RequireHealer reserves one team slot for a champion with the healer
	// flag.
	RequireHealer bool

	// ExcludeIDs removes champions from the candidate roster before
	// searching, e.g. members of a saved team being kept intact.
	ExcludeIDs []string

	// Progress is invoked at batch boundaries and on completion; nil is
	// fine.
	Progress ProgressFunc

	// BatchSlice overrides DefaultBatchSlice when positive.
	BatchSlice time.Duration
}

// FindOptimalTeam evaluates every candidate five-member team drawn from the
// roster and returns the one with the highest comparison score. Ties keep
// the first candidate in enumeration order, so equal inputs always return
// the same team.
//
// The search runs in batches bounded by a wall-clock slice; between batches
// it reports progress and polls ctx, so cancelling the context abandons the
// search promptly without a partial result. Individual scores are
// recomputed once up front against the supplied balance snapshot.
func FindOptimalTeam(ctx context.Context, roster []scoring.Champion, synergies []scoring.Synergy, c scoring.Constants, opts Options) (scoring.TeamEvaluation, error) {
	excluded := make(map[string]bool, len(opts.ExcludeIDs))
	for _, id := range opts.ExcludeIDs {
		excluded[id] = true
	}

	// The search owns its snapshot; callers keep their slice untouched.
	candidates := make([]scoring.Champion, 0, len(roster))
	for _, ch := range roster {
		if !excluded[ch.ID] {
			candidates = append(candidates, ch)
		}
	}

	if len(candidates) < scoring.TeamSize {
		return scoring.TeamEvaluation{}, fmt.Errorf("%w (have %d)", ErrInsufficientRoster, len(candidates))
	}

	var healers []int
	for i, ch := range candidates {
		if ch.Healer {
			healers = append(healers, i)
		}
	}
	if opts.RequireHealer && len(healers) == 0 {
		return scoring.TeamEvaluation{}, ErrNoHealerAvailable
	}

	scoring.ScoreRoster(candidates, c)

	total := Binomial(len(candidates), scoring.TeamSize)
	if opts.RequireHealer {
		total = int64(len(healers)) * Binomial(len(candidates)-1, scoring.TeamSize-1)
	}

	s := &searchState{
		synergies: synergies,
		constants: c,
		total:     total,
		slice:     opts.BatchSlice,
		progress:  opts.Progress,
	}
	if s.slice <= 0 {
		s.slice = DefaultBatchSlice
	}
	s.batchStart = time.Now()
	s.reportf(5, "Searching %d candidate teams", total)

	members := make([]scoring.Champion, scoring.TeamSize)
	idx := make([]int, scoring.TeamSize)

	if opts.RequireHealer {
		// One pass per healer: the healer takes the first slot and the
		// rest of the team is drawn from everyone else. A champion that is
		// itself a healer still appears as filler alongside other healers,
		// so some teams are evaluated more than once; first-seen-wins
		// keeps that deterministic.
		rest := make([]scoring.Champion, len(candidates)-1)
		for _, healerPos := range healers {
			rest = rest[:0]
			for i, ch := range candidates {
				if i != healerPos {
					rest = append(rest, ch)
				}
			}
			cursor := newCombinationCursor(len(rest), scoring.TeamSize-1)
			for cursor.next(idx[:scoring.TeamSize-1]) {
				members[0] = candidates[healerPos]
				for j := 0; j < scoring.TeamSize-1; j++ {
					members[j+1] = rest[idx[j]]
				}
				if err := s.consider(ctx, members); err != nil {
					return scoring.TeamEvaluation{}, err
				}
			}
		}
	} else {
		cursor := newCombinationCursor(len(candidates), scoring.TeamSize)
		for cursor.next(idx) {
			for j, pos := range idx {
				members[j] = candidates[pos]
			}
			if err := s.consider(ctx, members); err != nil {
				return scoring.TeamEvaluation{}, err
			}
		}
	}

	if !s.found {
		// Unreachable when the roster checks above hold, but a zero-candidate
		// run must still fail loudly rather than return an empty team.
		return scoring.TeamEvaluation{}, ErrNoValidCombinations
	}

	s.reportf(100, "Search complete")
	return s.best, nil
}

// SwapMember replaces one member of an evaluated team and re-evaluates the
// result from scratch. The replacement's individual score is recomputed
// first so a stale cache cannot leak into the new evaluation.
func SwapMember(team scoring.TeamEvaluation, index int, replacement scoring.Champion, synergies []scoring.Synergy, c scoring.Constants) (scoring.TeamEvaluation, error) {
	if index < 0 || index >= len(team.Members) {
		return scoring.TeamEvaluation{}, fmt.Errorf("%w: %d", ErrMemberIndex, index)
	}
	members := slices.Clone(team.Members)
	replacement.IndividualScore = scoring.IndividualScore(replacement, c)
	members[index] = replacement
	return scoring.EvaluateTeam(members, synergies, c)
}

type searchState struct {
	synergies []scoring.Synergy
	constants scoring.Constants

	evaluated  int64
	total      int64
	best       scoring.TeamEvaluation
	found      bool
	slice      time.Duration
	progress   ProgressFunc
	batchStart time.Time
}

func (s *searchState) consider(ctx context.Context, members []scoring.Champion) error {
	eval, err := scoring.EvaluateTeam(members, s.synergies, s.constants)
	if err != nil {
		return err
	}
	if !s.found || eval.ComparisonScore > s.best.ComparisonScore {
		s.best = eval
		s.found = true
	}
	s.evaluated++

	if s.evaluated%batchCheckStride == 0 && time.Since(s.batchStart) >= s.slice {
		s.reportf(s.percent(), "Evaluated %d of %d teams", s.evaluated, s.total)
		if err := ctx.Err(); err != nil {
			return err
		}
		s.batchStart = time.Now()
	}
	return nil
}

// percent maps evaluated progress onto a 5-99 band; 100 is reserved for
// completion.
func (s *searchState) percent() float64 {
	p := 5.0
	if s.total > 0 {
		p += 94 * float64(s.evaluated) / float64(s.total)
	}
	if p > 99 {
		p = 99
	}
	return p
}

func (s *searchState) reportf(percent float64, format string, args ...any) {
	if s.progress == nil {
		return
	}
	s.progress(fmt.Sprintf(format, args...), percent)
}
