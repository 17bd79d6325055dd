package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/repository"
	"github.com/theo/champion-teams-website/internal/scoring"
)

// ReferenceService manages the reference collections the rest of the app
// resolves against: champion, synergy and legacy piece definitions.
type ReferenceService struct {
	championRepo repository.ChampionRepository
	synergyRepo  repository.SynergyRepository
	pieceRepo    repository.LegacyPieceRepository
}

func NewReferenceService(championRepo repository.ChampionRepository, synergyRepo repository.SynergyRepository, pieceRepo repository.LegacyPieceRepository) *ReferenceService {
	return &ReferenceService{
		championRepo: championRepo,
		synergyRepo:  synergyRepo,
		pieceRepo:    pieceRepo,
	}
}

func (s *ReferenceService) GetChampions(ctx context.Context) ([]*domain.ChampionDefinition, error) {
	return s.championRepo.GetAll(ctx)
}

func (s *ReferenceService) GetChampion(ctx context.Context, id string) (*domain.ChampionDefinition, error) {
	champion, err := s.championRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChampionNotFound
		}
		return nil, err
	}
	return champion, nil
}

func (s *ReferenceService) GetSynergies(ctx context.Context) ([]*domain.SynergyDefinition, error) {
	return s.synergyRepo.GetAll(ctx)
}

func (s *ReferenceService) GetLegacyPieces(ctx context.Context) ([]*domain.LegacyPieceDefinition, error) {
	return s.pieceRepo.GetAll(ctx)
}

type SeedInput struct {
	Champions    []*domain.ChampionDefinition    `json:"champions"`
	Synergies    []*domain.SynergyDefinition     `json:"synergies"`
	LegacyPieces []*domain.LegacyPieceDefinition `json:"legacyPieces"`
}

type SeedResult struct {
	Champions    int `json:"champions"`
	Synergies    int `json:"synergies"`
	LegacyPieces int `json:"legacyPieces"`
}

// Seed bulk-upserts reference definitions. Existing entries with the same
// ID are overwritten, everything else is left alone.
func (s *ReferenceService) Seed(ctx context.Context, input SeedInput) (*SeedResult, error) {
	if len(input.Champions) > 0 {
		if err := s.championRepo.UpsertMany(ctx, input.Champions); err != nil {
			return nil, fmt.Errorf("seed champions: %w", err)
		}
	}
	if len(input.Synergies) > 0 {
		if err := s.synergyRepo.UpsertMany(ctx, input.Synergies); err != nil {
			return nil, fmt.Errorf("seed synergies: %w", err)
		}
	}
	if len(input.LegacyPieces) > 0 {
		if err := s.pieceRepo.UpsertMany(ctx, input.LegacyPieces); err != nil {
			return nil, fmt.Errorf("seed legacy pieces: %w", err)
		}
	}
	return &SeedResult{
		Champions:    len(input.Champions),
		Synergies:    len(input.Synergies),
		LegacyPieces: len(input.LegacyPieces),
	}, nil
}

// ScoringSynergies converts the synergy definitions into engine form.
func (s *ReferenceService) ScoringSynergies(ctx context.Context) ([]scoring.Synergy, error) {
	defs, err := s.synergyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	synergies := make([]scoring.Synergy, 0, len(defs))
	for _, def := range defs {
		syn := scoring.Synergy{
			Name:        def.Name,
			BonusType:   scoring.BonusType(def.BonusType),
			BonusValue:  def.BonusValue,
			Description: def.Description,
		}
		if len(def.Tiers) > 0 {
			if err := json.Unmarshal(def.Tiers, &syn.Tiers); err != nil {
				return nil, fmt.Errorf("synergy %s: decode tiers: %w", def.ID, err)
			}
		}
		synergies = append(synergies, syn)
	}
	return synergies, nil
}

// ValidateRoster cross-checks roster entries against the definitions and
// the balance table. Scoring substitutes neutral values for anything
// listed here, so these are warnings rather than errors.
func (s *ReferenceService) ValidateRoster(ctx context.Context, entries []*domain.RosterEntry, constants scoring.Constants) ([]domain.Warning, error) {
	champions, err := s.championRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	synergies, err := s.synergyRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	pieces, err := s.pieceRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	championsByID := make(map[string]*domain.ChampionDefinition, len(champions))
	for _, c := range champions {
		championsByID[c.ID] = c
	}
	synergyByName := make(map[string]bool, len(synergies))
	for _, syn := range synergies {
		synergyByName[syn.Name] = true
	}
	piecesByID := make(map[string]bool, len(pieces))
	for _, p := range pieces {
		piecesByID[p.ID] = true
	}

	var warnings []domain.Warning
	warn := func(subject, field, message string) {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarningUnknownReference,
			Subject: subject,
			Field:   field,
			Message: message,
		})
	}

	for _, entry := range entries {
		def, known := championsByID[entry.ChampionID]
		if !known {
			warn(entry.ChampionID, "championId", "champion has no definition")
		}

		if _, ok := constants.StarMultipliers[entry.StarTier]; !ok {
			warn(entry.ChampionID, "starTier", fmt.Sprintf("unknown star tier %q, scored as base", entry.StarTier))
		}
		if _, ok := constants.ForceModifiers[entry.ForceLevel]; !ok {
			warn(entry.ChampionID, "forceLevel", fmt.Sprintf("unknown force level %d, scored as zero", entry.ForceLevel))
		}

		if len(entry.Gear) > 0 {
			var gear map[string]string
			if err := json.Unmarshal(entry.Gear, &gear); err != nil {
				warn(entry.ChampionID, "gear", "gear is not valid JSON")
			} else {
				for slot, rarity := range gear {
					if _, ok := constants.GearModifiers[rarity]; !ok {
						warn(entry.ChampionID, "gear", fmt.Sprintf("unknown gear rarity %q in slot %s, scored as zero", rarity, slot))
					}
				}
			}
		}

		if len(entry.LegacyPiece) > 0 {
			var piece domain.EquippedLegacyPiece
			if err := json.Unmarshal(entry.LegacyPiece, &piece); err != nil {
				warn(entry.ChampionID, "legacyPiece", "legacy piece is not valid JSON")
			} else if piece.ID != "" {
				if !piecesByID[piece.ID] {
					warn(entry.ChampionID, "legacyPiece", fmt.Sprintf("legacy piece %q has no definition", piece.ID))
				}
				if _, ok := constants.LegacyRarityModifiers[piece.Rarity]; !ok {
					warn(entry.ChampionID, "legacyPiece", fmt.Sprintf("unknown legacy rarity %q, scored as zero", piece.Rarity))
				}
				if _, ok := constants.LegacyStarModifiers[piece.StarTier]; !ok {
					warn(entry.ChampionID, "legacyPiece", fmt.Sprintf("unknown legacy star tier %q, scored as zero", piece.StarTier))
				}
			}
		}

		if def != nil {
			tags, err := def.TagList()
			if err != nil {
				warn(entry.ChampionID, "synergyTags", "synergy tags are not valid JSON")
				continue
			}
			for _, tag := range tags {
				if !synergyByName[tag] {
					warn(entry.ChampionID, "synergyTags", fmt.Sprintf("tag %q matches no synergy", tag))
				}
			}
		}
	}

	return warnings, nil
}
