package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/optimizer"
	"github.com/theo/champion-teams-website/internal/repository"
	"github.com/theo/champion-teams-website/internal/scoring"
)

var ErrMemberNotInRoster = errors.New("champion is not in your roster")

// TeamService evaluates, saves and edits five-member teams. Evaluations
// always run against the caller's current roster and balance snapshot;
// saved teams freeze the evaluation from the moment they were stored.
type TeamService struct {
	teamRepo repository.TeamRepository
	roster   *RosterService
	refs     *ReferenceService
	balance  balance.Source
}

func NewTeamService(teamRepo repository.TeamRepository, roster *RosterService, refs *ReferenceService, source balance.Source) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		roster:   roster,
		refs:     refs,
		balance:  source,
	}
}

func (s *TeamService) Evaluate(ctx context.Context, userID uuid.UUID, memberIDs []string) (*scoring.TeamEvaluation, error) {
	tc, err := s.loadContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	members, err := tc.members(memberIDs)
	if err != nil {
		return nil, err
	}
	eval, err := scoring.EvaluateTeam(members, tc.synergies, tc.snap.Constants)
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (s *TeamService) SaveTeam(ctx context.Context, userID uuid.UUID, name string, memberIDs []string) (*domain.SavedTeam, error) {
	eval, err := s.Evaluate(ctx, userID, memberIDs)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "Saved Team"
	}

	idsJSON, err := json.Marshal(memberIDs)
	if err != nil {
		return nil, err
	}
	evalJSON, err := json.Marshal(eval)
	if err != nil {
		return nil, err
	}

	team := &domain.SavedTeam{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		MemberIDs:  idsJSON,
		Evaluation: evalJSON,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context, userID uuid.UUID) ([]*domain.SavedTeam, error) {
	return s.teamRepo.GetByUser(ctx, userID)
}

func (s *TeamService) GetTeam(ctx context.Context, userID, teamID uuid.UUID) (*domain.SavedTeam, error) {
	return s.getOwned(ctx, userID, teamID)
}

func (s *TeamService) DeleteTeam(ctx context.Context, userID, teamID uuid.UUID) error {
	if _, err := s.getOwned(ctx, userID, teamID); err != nil {
		return err
	}
	return s.teamRepo.Delete(ctx, teamID)
}

// PreviewSwap evaluates the team with one member replaced, without
// persisting anything.
func (s *TeamService) PreviewSwap(ctx context.Context, userID uuid.UUID, memberIDs []string, index int, replacementID string) (*scoring.TeamEvaluation, error) {
	tc, err := s.loadContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	members, err := tc.members(memberIDs)
	if err != nil {
		return nil, err
	}
	current, err := scoring.EvaluateTeam(members, tc.synergies, tc.snap.Constants)
	if err != nil {
		return nil, err
	}
	replacement, ok := tc.rosterIndex[replacementID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotInRoster, replacementID)
	}
	swapped, err := optimizer.SwapMember(current, index, replacement, tc.synergies, tc.snap.Constants)
	if err != nil {
		return nil, err
	}
	return &swapped, nil
}

// SwapMember replaces one member of a saved team and persists the new
// lineup with its fresh evaluation.
func (s *TeamService) SwapMember(ctx context.Context, userID, teamID uuid.UUID, index int, replacementID string) (*domain.SavedTeam, *scoring.TeamEvaluation, error) {
	team, err := s.getOwned(ctx, userID, teamID)
	if err != nil {
		return nil, nil, err
	}
	var memberIDs []string
	if err := json.Unmarshal(team.MemberIDs, &memberIDs); err != nil {
		return nil, nil, fmt.Errorf("team %s: decode members: %w", team.ID, err)
	}

	swapped, err := s.PreviewSwap(ctx, userID, memberIDs, index, replacementID)
	if err != nil {
		return nil, nil, err
	}

	newIDs := make([]string, 0, len(swapped.Members))
	for _, m := range swapped.Members {
		newIDs = append(newIDs, m.ID)
	}
	idsJSON, err := json.Marshal(newIDs)
	if err != nil {
		return nil, nil, err
	}
	evalJSON, err := json.Marshal(swapped)
	if err != nil {
		return nil, nil, err
	}

	team.MemberIDs = idsJSON
	team.Evaluation = evalJSON
	team.UpdatedAt = time.Now()
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, nil, err
	}
	return team, swapped, nil
}

func (s *TeamService) getOwned(ctx context.Context, userID, teamID uuid.UUID) (*domain.SavedTeam, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	if team.UserID != userID {
		return nil, domain.ErrTeamNotFound
	}
	return team, nil
}

// teamContext bundles everything one evaluation needs, loaded once.
type teamContext struct {
	rosterIndex map[string]scoring.Champion
	synergies   []scoring.Synergy
	snap        balance.Snapshot
}

func (s *TeamService) loadContext(ctx context.Context, userID uuid.UUID) (*teamContext, error) {
	roster, err := s.roster.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]scoring.Champion, len(roster))
	for _, ch := range roster {
		index[ch.ID] = ch
	}
	synergies, err := s.refs.ScoringSynergies(ctx)
	if err != nil {
		return nil, err
	}
	return &teamContext{
		rosterIndex: index,
		synergies:   synergies,
		snap:        s.balance.Current(),
	}, nil
}

func (tc *teamContext) members(ids []string) ([]scoring.Champion, error) {
	members := make([]scoring.Champion, 0, len(ids))
	for _, id := range ids {
		ch, ok := tc.rosterIndex[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotInRoster, id)
		}
		members = append(members, ch)
	}
	return members, nil
}
