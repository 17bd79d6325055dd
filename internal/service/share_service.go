package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/repository"
)

// ShareService publishes saved team evaluations under short codes that
// resolve without authentication.
type ShareService struct {
	shareRepo repository.ShareRepository
	teams     *TeamService
}

func NewShareService(shareRepo repository.ShareRepository, teams *TeamService) *ShareService {
	return &ShareService{
		shareRepo: shareRepo,
		teams:     teams,
	}
}

// ShareSnapshot is the public view stored when a team is shared. It is
// frozen at share time; later roster or balance changes do not touch it.
type ShareSnapshot struct {
	TeamName   string          `json:"teamName"`
	SharedAt   time.Time       `json:"sharedAt"`
	Evaluation json.RawMessage `json:"evaluation"`
}

func (s *ShareService) ShareTeam(ctx context.Context, userID, teamID uuid.UUID) (*domain.SharedTeam, error) {
	team, err := s.teams.GetTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}

	snapshot := ShareSnapshot{
		TeamName:   team.Name,
		SharedAt:   time.Now(),
		Evaluation: json.RawMessage(team.Evaluation),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}

	share := &domain.SharedTeam{
		ID:        uuid.New(),
		ShareCode: generateShareCode(),
		CreatedBy: userID,
		Snapshot:  data,
		CreatedAt: time.Now(),
	}
	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}
	return share, nil
}

func (s *ShareService) Resolve(ctx context.Context, code string) (*domain.SharedTeam, error) {
	share, err := s.shareRepo.GetByCode(ctx, strings.ToLower(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShareNotFound
		}
		return nil, err
	}
	return share, nil
}

func generateShareCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
