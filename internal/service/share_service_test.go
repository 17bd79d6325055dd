package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/repository/postgres"
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/service"
	"github.com/theo/champion-teams-website/internal/testutil"
)

func newShareService(t *testing.T) (*service.ShareService, *service.TeamService, uuid.UUID) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	refs := service.NewReferenceService(repos.Champion, repos.Synergy, repos.LegacyPiece)
	source := balance.NewStatic(scoring.DefaultConstants())
	roster := service.NewRosterService(repos.Roster, refs, source)
	team := service.NewTeamService(repos.Team, roster, refs, source)
	share := service.NewShareService(repos.Share, team)

	seeded := testutil.SeedReferenceData(t, testDB.DB)
	userID := uuid.New()
	testutil.SeedRoster(t, testDB.DB, userID, seeded, scoring.TierUnlocked)

	return share, team, userID
}

func TestShareService_ShareAndResolve(t *testing.T) {
	shareService, teamService, userID := newShareService(t)
	ctx := context.Background()

	team, err := teamService.SaveTeam(ctx, userID, "Main Squad", justiceLeagueFive)
	require.NoError(t, err)

	share, err := shareService.ShareTeam(ctx, userID, team.ID)
	require.NoError(t, err)
	assert.Len(t, share.ShareCode, 8)
	assert.Equal(t, userID, share.CreatedBy)

	resolved, err := shareService.Resolve(ctx, share.ShareCode)
	require.NoError(t, err)

	var snapshot service.ShareSnapshot
	require.NoError(t, json.Unmarshal(resolved.Snapshot, &snapshot))
	assert.Equal(t, "Main Squad", snapshot.TeamName)

	var eval scoring.TeamEvaluation
	require.NoError(t, json.Unmarshal(snapshot.Evaluation, &eval))
	assert.InDelta(t, 1216.6, eval.TotalScore, 1e-9)

	// Codes resolve case-insensitively
	_, err = shareService.Resolve(ctx, strings.ToUpper(share.ShareCode))
	require.NoError(t, err)

	_, err = shareService.Resolve(ctx, "00000000")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)
}

func TestShareService_SnapshotOutlivesTeam(t *testing.T) {
	shareService, teamService, userID := newShareService(t)
	ctx := context.Background()

	team, err := teamService.SaveTeam(ctx, userID, "Ephemeral", justiceLeagueFive)
	require.NoError(t, err)
	share, err := shareService.ShareTeam(ctx, userID, team.ID)
	require.NoError(t, err)

	require.NoError(t, teamService.DeleteTeam(ctx, userID, team.ID))

	resolved, err := shareService.Resolve(ctx, share.ShareCode)
	require.NoError(t, err)
	var snapshot service.ShareSnapshot
	require.NoError(t, json.Unmarshal(resolved.Snapshot, &snapshot))
	assert.Equal(t, "Ephemeral", snapshot.TeamName)
}

func TestShareService_OwnershipRequired(t *testing.T) {
	shareService, teamService, userID := newShareService(t)
	ctx := context.Background()

	team, err := teamService.SaveTeam(ctx, userID, "Private", justiceLeagueFive)
	require.NoError(t, err)

	_, err = shareService.ShareTeam(ctx, uuid.New(), team.ID)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}
