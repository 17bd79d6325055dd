package service

import (
	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/config"
	"github.com/theo/champion-teams-website/internal/repository"
	"github.com/theo/champion-teams-website/internal/websocket"
)

type Services struct {
	Auth      *AuthService
	Reference *ReferenceService
	Roster    *RosterService
	Team      *TeamService
	Optimize  *OptimizeService
	Share     *ShareService
	Transfer  *TransferService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, source balance.Source, hub *websocket.Hub) *Services {
	auth := NewAuthService(repos.User, repos.Session, cfg)
	refs := NewReferenceService(repos.Champion, repos.Synergy, repos.LegacyPiece)
	roster := NewRosterService(repos.Roster, refs, source)
	team := NewTeamService(repos.Team, roster, refs, source)

	return &Services{
		Auth:      auth,
		Reference: refs,
		Roster:    roster,
		Team:      team,
		Optimize:  NewOptimizeService(roster, refs, team, source, hub, cfg),
		Share:     NewShareService(repos.Share, team),
		Transfer:  NewTransferService(roster, team, refs),
	}
}
