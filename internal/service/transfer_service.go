package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/transfer"
)

// TransferService glues the interchange formats to the user's stored
// roster and teams.
type TransferService struct {
	roster *RosterService
	teams  *TeamService
	refs   *ReferenceService
}

func NewTransferService(roster *RosterService, teams *TeamService, refs *ReferenceService) *TransferService {
	return &TransferService{
		roster: roster,
		teams:  teams,
		refs:   refs,
	}
}

type ImportSummary struct {
	Imported int              `json:"imported"`
	Warnings []domain.Warning `json:"warnings"`
}

// ImportRoster parses an interchange document and replaces the user's
// roster with its contents. Parse warnings and reference warnings come
// back together; only a document too broken to parse is an error.
func (s *TransferService) ImportRoster(ctx context.Context, userID uuid.UUID, data []byte) (*ImportSummary, error) {
	parsed, err := transfer.Parse(data)
	if err != nil {
		return nil, err
	}

	entries, warnings, err := s.roster.ApplyImport(ctx, userID, parsed.Champions)
	if err != nil {
		return nil, err
	}

	return &ImportSummary{
		Imported: len(entries),
		Warnings: append(parsed.Warnings, warnings...),
	}, nil
}

func (s *TransferService) ExportJSON(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	entries, err := s.roster.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return transfer.Export(entries)
}

func (s *TransferService) ExportXLSX(ctx context.Context, userID uuid.UUID) (*bytes.Buffer, error) {
	roster, err := s.roster.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	teams, err := s.teams.ListTeams(ctx, userID)
	if err != nil {
		return nil, err
	}

	names, err := s.championNames(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]transfer.TeamSummary, 0, len(teams))
	for _, team := range teams {
		summary := transfer.TeamSummary{Name: team.Name}

		var memberIDs []string
		if err := json.Unmarshal(team.MemberIDs, &memberIDs); err != nil {
			log.Printf("WARN [TransferService.ExportXLSX]: team %s: decode members: %v", team.ID, err)
			continue
		}
		for _, id := range memberIDs {
			if name, ok := names[id]; ok {
				summary.Members = append(summary.Members, name)
			} else {
				summary.Members = append(summary.Members, id)
			}
		}

		if len(team.Evaluation) > 0 {
			var eval struct {
				TotalScore      float64 `json:"totalScore"`
				ComparisonScore float64 `json:"comparisonScore"`
			}
			if err := json.Unmarshal(team.Evaluation, &eval); err == nil {
				summary.TotalScore = eval.TotalScore
				summary.ComparisonScore = eval.ComparisonScore
			}
		}

		summaries = append(summaries, summary)
	}

	return transfer.ExportXLSX(roster, summaries)
}

func (s *TransferService) championNames(ctx context.Context) (map[string]string, error) {
	defs, err := s.refs.GetChampions(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(defs))
	for _, def := range defs {
		names[def.ID] = def.Name
	}
	return names, nil
}
