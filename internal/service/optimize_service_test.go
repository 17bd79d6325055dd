package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/config"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/optimizer"
	"github.com/theo/champion-teams-website/internal/repository/postgres"
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/service"
	"github.com/theo/champion-teams-website/internal/testutil"
)

type optimizeStack struct {
	Optimize *service.OptimizeService
	Team     *service.TeamService
	DB       *testutil.TestDB
	Refs     *testutil.ReferenceData
}

func newOptimizeStack(t *testing.T, cfg *config.Config) *optimizeStack {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	refs := service.NewReferenceService(repos.Champion, repos.Synergy, repos.LegacyPiece)
	source := balance.NewStatic(scoring.DefaultConstants())
	roster := service.NewRosterService(repos.Roster, refs, source)
	team := service.NewTeamService(repos.Team, roster, refs, source)
	optimize := service.NewOptimizeService(roster, refs, team, source, nil, cfg)

	return &optimizeStack{
		Optimize: optimize,
		Team:     team,
		DB:       testDB,
		Refs:     testutil.SeedReferenceData(t, testDB.DB),
	}
}

func waitForJob(t *testing.T, svc *service.OptimizeService, userID, jobID uuid.UUID) service.JobView {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.GetJob(userID, jobID)
		require.NoError(t, err)
		view := job.View()
		if view.Status != service.JobStatusRunning {
			return view
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for job to finish")
	return service.JobView{}
}

// padRoster adds filler champions so a search spans enough batches to
// observe it mid-flight.
func padRoster(t *testing.T, stack *optimizeStack, userID uuid.UUID, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		champion := testutil.NewChampionBuilder().
			WithID(fmt.Sprintf("filler-%02d", i)).
			WithTags().
			Build(t, stack.DB.DB)
		testutil.NewRosterEntryBuilder(userID, champion.ID).Build(t, stack.DB.DB)
	}
}

func TestOptimizeService_SearchFindsBestTeam(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)

	job, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	require.NoError(t, err)

	view := waitForJob(t, stack.Optimize, userID, job.ID)
	assert.Equal(t, service.JobStatusComplete, view.Status)
	assert.InDelta(t, 100, view.Percent, 1e-9)
	require.NotNil(t, view.Result)
	require.NotNil(t, view.FinishedAt)

	// Gotham Knights at three members plus Justice League at tier 2 beats
	// the straight Justice League lineup.
	ids := make([]string, 0, len(view.Result.Members))
	for _, m := range view.Result.Members {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"superman", "batman", "wonder-woman", "nightwing", "batgirl"}, ids)
	assert.InDelta(t, 1260.6, view.Result.TotalScore, 1e-9)
	assert.InDelta(t, 1364.2, view.Result.ComparisonScore, 1e-9)

	// Job lookup is scoped to the owning user
	_, err = stack.Optimize.GetJob(uuid.New(), job.ID)
	assert.ErrorIs(t, err, service.ErrJobNotFound)
	_, err = stack.Optimize.GetJob(userID, uuid.New())
	assert.ErrorIs(t, err, service.ErrJobNotFound)
}

func TestOptimizeService_RequireHealer(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)

	// Excluding batgirl forces the healer slot onto zatanna
	job, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{
		RequireHealer: true,
		ExcludeIDs:    []string{"batgirl"},
	})
	require.NoError(t, err)

	view := waitForJob(t, stack.Optimize, userID, job.ID)
	require.Equal(t, service.JobStatusComplete, view.Status)
	require.NotNil(t, view.Result)

	hasHealer := false
	for _, m := range view.Result.Members {
		assert.NotEqual(t, "batgirl", m.ID)
		if m.Healer {
			hasHealer = true
		}
	}
	assert.True(t, hasHealer)
	assert.InDelta(t, 1320.2, view.Result.ComparisonScore, 1e-9)
}

func TestOptimizeService_CancelJob(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)
	padRoster(t, stack, userID, 30)

	job, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, stack.Optimize.CancelJob(userID, job.ID))

	view := waitForJob(t, stack.Optimize, userID, job.ID)
	assert.Equal(t, service.JobStatusCancelled, view.Status)
	assert.Nil(t, view.Result)

	// Cancelling a finished job is a no-op
	require.NoError(t, stack.Optimize.CancelJob(userID, job.ID))

	err = stack.Optimize.CancelJob(uuid.New(), job.ID)
	assert.ErrorIs(t, err, service.ErrJobNotFound)
}

func TestOptimizeService_OneSearchPerUser(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)
	padRoster(t, stack, userID, 30)

	job, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	require.NoError(t, err)

	_, err = stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	assert.ErrorIs(t, err, service.ErrSearchInProgress)

	// A different user is not blocked
	otherID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, otherID, stack.Refs, scoring.TierUnlocked)
	otherJob, err := stack.Optimize.StartSearch(ctx, otherID, service.OptimizeRequest{})
	require.NoError(t, err)

	require.NoError(t, stack.Optimize.CancelJob(userID, job.ID))
	waitForJob(t, stack.Optimize, userID, job.ID)
	waitForJob(t, stack.Optimize, otherID, otherJob.ID)
}

func TestOptimizeService_PreflightErrors(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()

	// Roster of three is too small to field a team
	for _, id := range []string{"superman", "batman", "flash"} {
		testutil.NewRosterEntryBuilder(userID, id).Build(t, stack.DB.DB)
	}
	_, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	assert.ErrorIs(t, err, optimizer.ErrInsufficientRoster)

	// Full roster, but both healers excluded
	require.NoError(t, stack.DB.DB.Exec("DELETE FROM roster_entries").Error)
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)
	_, err = stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{
		RequireHealer: true,
		ExcludeIDs:    []string{"zatanna", "batgirl"},
	})
	assert.ErrorIs(t, err, optimizer.ErrNoHealerAvailable)

	// Excluding a saved team's members leaves fewer than five eligible
	team, err := stack.Team.SaveTeam(ctx, userID, "Main", justiceLeagueFive)
	require.NoError(t, err)
	_, err = stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{ExcludeTeamID: &team.ID})
	assert.ErrorIs(t, err, optimizer.ErrInsufficientRoster)

	// An exclusion team that does not exist surfaces on the request
	missing := uuid.New()
	_, err = stack.Optimize.StartSearch(ctx, uuid.New(), service.OptimizeRequest{ExcludeTeamID: &missing})
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestOptimizeService_RateLimited(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.OptimizeRatePerMin = 1
	stack := newOptimizeStack(t, cfg)
	ctx := context.Background()
	userID := uuid.New()

	// An empty roster fails preflight but still consumes launch tokens,
	// so the burst runs out without any job actually starting.
	for i := 0; i < 3; i++ {
		_, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
		assert.ErrorIs(t, err, optimizer.ErrInsufficientRoster)
	}

	_, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	assert.ErrorIs(t, err, service.ErrRateLimited)
}

func TestOptimizeService_Reap(t *testing.T) {
	stack := newOptimizeStack(t, testutil.TestConfig())
	ctx := context.Background()
	userID := uuid.New()
	testutil.SeedRoster(t, stack.DB.DB, userID, stack.Refs, scoring.TierUnlocked)

	job, err := stack.Optimize.StartSearch(ctx, userID, service.OptimizeRequest{})
	require.NoError(t, err)
	waitForJob(t, stack.Optimize, userID, job.ID)

	// Not old enough yet
	stack.Optimize.Reap(time.Hour)
	_, err = stack.Optimize.GetJob(userID, job.ID)
	require.NoError(t, err)

	stack.Optimize.Reap(0)
	_, err = stack.Optimize.GetJob(userID, job.ID)
	assert.ErrorIs(t, err, service.ErrJobNotFound)
}
