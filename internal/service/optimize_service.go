package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/config"
	"github.com/theo/champion-teams-website/internal/optimizer"
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/websocket"
)

var (
	ErrJobNotFound      = errors.New("optimization job not found")
	ErrSearchInProgress = errors.New("an optimization is already running for this user")
	ErrRateLimited      = errors.New("too many optimization requests")
)

// optimizeLaunchBurst is how many searches a user can start back to back
// before the per-user rate takes over.
const optimizeLaunchBurst = 3

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusComplete  JobStatus = "complete"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusFailed    JobStatus = "failed"
)

// OptimizeJob tracks one search from launch to completion. The search
// goroutine owns the heavy work; everything here is bookkeeping shared
// with pollers and the websocket hub.
type OptimizeJob struct {
	ID     uuid.UUID
	UserID uuid.UUID

	mu         sync.Mutex
	status     JobStatus
	statusText string
	percent    float64
	result     *scoring.TeamEvaluation
	errText    string
	startedAt  time.Time
	finishedAt time.Time

	cancel context.CancelFunc
}

// JobView is the poll/JSON shape of a job.
type JobView struct {
	ID         uuid.UUID               `json:"id"`
	Status     JobStatus               `json:"status"`
	StatusText string                  `json:"statusText"`
	Percent    float64                 `json:"percent"`
	Result     *scoring.TeamEvaluation `json:"result,omitempty"`
	Error      string                  `json:"error,omitempty"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt *time.Time              `json:"finishedAt,omitempty"`
}

func (j *OptimizeJob) View() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()
	view := JobView{
		ID:         j.ID,
		Status:     j.status,
		StatusText: j.statusText,
		Percent:    j.percent,
		Result:     j.result,
		Error:      j.errText,
		StartedAt:  j.startedAt,
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		view.FinishedAt = &t
	}
	return view
}

func (j *OptimizeJob) setProgress(status string, percent float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.statusText = status
	j.percent = percent
}

func (j *OptimizeJob) finish(status JobStatus, text string, result *scoring.TeamEvaluation, errText string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.statusText = text
	j.errText = errText
	if result != nil {
		j.result = result
		j.percent = 100
	}
	j.finishedAt = time.Now()
}

func (j *OptimizeJob) currentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

type OptimizeRequest struct {
	RequireHealer bool       `json:"requireHealer"`
	ExcludeTeamID *uuid.UUID `json:"excludeTeamId,omitempty"`
	ExcludeIDs    []string   `json:"excludeIds,omitempty"`
}

// OptimizeService runs best-team searches as background jobs: one running
// job per user, progress fanned out over the websocket hub and available
// by polling.
type OptimizeService struct {
	roster  *RosterService
	refs    *ReferenceService
	teams   *TeamService
	balance balance.Source
	hub     *websocket.Hub
	cfg     *config.Config

	mu       sync.RWMutex
	jobs     map[uuid.UUID]*OptimizeJob
	limiters map[uuid.UUID]*rate.Limiter
}

func NewOptimizeService(roster *RosterService, refs *ReferenceService, teams *TeamService, source balance.Source, hub *websocket.Hub, cfg *config.Config) *OptimizeService {
	return &OptimizeService{
		roster:   roster,
		refs:     refs,
		teams:    teams,
		balance:  source,
		hub:      hub,
		cfg:      cfg,
		jobs:     make(map[uuid.UUID]*OptimizeJob),
		limiters: make(map[uuid.UUID]*rate.Limiter),
	}
}

// StartSearch snapshots the user's roster, synergies and balance, then
// launches the search on its own goroutine. The snapshot means a search
// never observes roster or balance changes made while it runs.
func (s *OptimizeService) StartSearch(ctx context.Context, userID uuid.UUID, req OptimizeRequest) (*OptimizeJob, error) {
	if !s.limiter(userID).Allow() {
		return nil, ErrRateLimited
	}
	if s.hasRunningJob(userID) {
		return nil, ErrSearchInProgress
	}

	roster, err := s.roster.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	synergies, err := s.refs.ScoringSynergies(ctx)
	if err != nil {
		return nil, err
	}
	snap := s.balance.Current()

	opts := optimizer.Options{
		RequireHealer: req.RequireHealer,
		ExcludeIDs:    req.ExcludeIDs,
		BatchSlice:    s.cfg.OptimizeBatchSlice,
	}
	if req.ExcludeTeamID != nil {
		team, err := s.teams.GetTeam(ctx, userID, *req.ExcludeTeamID)
		if err != nil {
			return nil, err
		}
		var memberIDs []string
		if err := json.Unmarshal(team.MemberIDs, &memberIDs); err != nil {
			return nil, fmt.Errorf("team %s: decode members: %w", team.ID, err)
		}
		opts.ExcludeIDs = append(opts.ExcludeIDs, memberIDs...)
	}

	// Cheap preflight so obvious failures surface on the request instead
	// of a failed job.
	if err := preflight(roster, opts); err != nil {
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	job := &OptimizeJob{
		ID:         uuid.New(),
		UserID:     userID,
		status:     JobStatusRunning,
		statusText: "Queued",
		startedAt:  time.Now(),
		cancel:     cancel,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(jobCtx, job, roster, synergies, snap.Constants, opts)

	log.Printf("INFO [OptimizeService.StartSearch]: job %s started for user %s", job.ID, userID)
	return job, nil
}

func (s *OptimizeService) GetJob(userID, jobID uuid.UUID) (*OptimizeJob, error) {
	s.mu.RLock()
	job := s.jobs[jobID]
	s.mu.RUnlock()
	if job == nil || job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// CancelJob asks a running search to stop at its next batch boundary.
// Cancelling a finished job is a no-op.
func (s *OptimizeService) CancelJob(userID, jobID uuid.UUID) error {
	job, err := s.GetJob(userID, jobID)
	if err != nil {
		return err
	}
	job.cancel()
	return nil
}

// Reap drops finished jobs older than maxAge so the job map does not grow
// without bound. The server runs this on a timer.
func (s *OptimizeService) Reap(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		job.mu.Lock()
		done := job.status != JobStatusRunning && !job.finishedAt.IsZero() && job.finishedAt.Before(cutoff)
		job.mu.Unlock()
		if done {
			delete(s.jobs, id)
		}
	}
}

func (s *OptimizeService) run(ctx context.Context, job *OptimizeJob, roster []scoring.Champion, synergies []scoring.Synergy, c scoring.Constants, opts optimizer.Options) {
	opts.Progress = func(status string, percent float64) {
		job.setProgress(status, percent)
		s.broadcastProgress(job)
	}

	result, err := optimizer.FindOptimalTeam(ctx, roster, synergies, c, opts)
	switch {
	case err == nil:
		job.finish(JobStatusComplete, "Search complete", &result, "")
		s.broadcastComplete(job, &result)
	case errors.Is(err, context.Canceled):
		job.finish(JobStatusCancelled, "Search cancelled", nil, "search cancelled")
		s.broadcastError(job, "search cancelled")
	default:
		job.finish(JobStatusFailed, "Search failed", nil, err.Error())
		s.broadcastError(job, err.Error())
		log.Printf("ERROR [OptimizeService.run]: job %s: %v", job.ID, err)
	}
}

func (s *OptimizeService) hasRunningJob(userID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.UserID == userID && job.currentStatus() == JobStatusRunning {
			return true
		}
	}
	return false
}

func (s *OptimizeService) limiter(userID uuid.UUID) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[userID]
	if !ok {
		perMin := s.cfg.OptimizeRatePerMin
		if perMin <= 0 {
			perMin = 30
		}
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), optimizeLaunchBurst)
		s.limiters[userID] = lim
	}
	return lim
}

func (s *OptimizeService) broadcastProgress(job *OptimizeJob) {
	if s.hub == nil {
		return
	}
	view := job.View()
	msg, err := websocket.NewMessage(websocket.MessageTypeOptimizeProgress, websocket.OptimizeProgressPayload{
		JobID:   job.ID.String(),
		Status:  view.StatusText,
		Percent: view.Percent,
	})
	if err != nil {
		return
	}
	s.hub.BroadcastJob(job.ID.String(), msg)
}

func (s *OptimizeService) broadcastComplete(job *OptimizeJob, result *scoring.TeamEvaluation) {
	if s.hub == nil {
		return
	}
	msg, err := websocket.NewMessage(websocket.MessageTypeOptimizeComplete, websocket.OptimizeCompletePayload{
		JobID:  job.ID.String(),
		Result: result,
	})
	if err != nil {
		return
	}
	s.hub.BroadcastJob(job.ID.String(), msg)
}

func (s *OptimizeService) broadcastError(job *OptimizeJob, errText string) {
	if s.hub == nil {
		return
	}
	msg, err := websocket.NewMessage(websocket.MessageTypeOptimizeError, websocket.OptimizeErrorPayload{
		JobID: job.ID.String(),
		Error: errText,
	})
	if err != nil {
		return
	}
	s.hub.BroadcastJob(job.ID.String(), msg)
}

func preflight(roster []scoring.Champion, opts optimizer.Options) error {
	excluded := make(map[string]bool, len(opts.ExcludeIDs))
	for _, id := range opts.ExcludeIDs {
		excluded[id] = true
	}
	eligible, healers := 0, 0
	for _, ch := range roster {
		if excluded[ch.ID] {
			continue
		}
		eligible++
		if ch.Healer {
			healers++
		}
	}
	if eligible < scoring.TeamSize {
		return fmt.Errorf("%w (have %d)", optimizer.ErrInsufficientRoster, eligible)
	}
	if opts.RequireHealer && healers == 0 {
		return optimizer.ErrNoHealerAvailable
	}
	return nil
}
