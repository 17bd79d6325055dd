package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/theo/champion-teams-website/internal/balance"
	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/repository"
	"github.com/theo/champion-teams-website/internal/scoring"
	"github.com/theo/champion-teams-website/internal/transfer"
)

// RosterService owns per-user rosters. Every write recomputes the entry's
// individual score against the current balance snapshot and stamps the
// version it was computed under; reads refresh entries whose stamp is stale.
type RosterService struct {
	rosterRepo repository.RosterRepository
	refs       *ReferenceService
	balance    balance.Source
}

func NewRosterService(rosterRepo repository.RosterRepository, refs *ReferenceService, source balance.Source) *RosterService {
	return &RosterService{
		rosterRepo: rosterRepo,
		refs:       refs,
		balance:    source,
	}
}

type RosterEntryInput struct {
	ChampionID  string                      `json:"championId"`
	StarTier    string                      `json:"starTier"`
	ForceLevel  int                         `json:"forceLevel"`
	Gear        map[string]string           `json:"gear"`
	LegacyPiece *domain.EquippedLegacyPiece `json:"legacyPiece"`
}

func (s *RosterService) AddEntry(ctx context.Context, userID uuid.UUID, input RosterEntryInput) (*domain.RosterEntry, []domain.Warning, error) {
	if err := validateRosterInput(input); err != nil {
		return nil, nil, err
	}
	if _, err := s.refs.GetChampion(ctx, input.ChampionID); err != nil {
		return nil, nil, err
	}
	if existing, err := s.rosterRepo.GetEntry(ctx, userID, input.ChampionID); err == nil && existing != nil {
		return nil, nil, domain.ErrDuplicateRosterEntry
	}

	entry, err := entryFromInput(userID, input)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := s.rescore(ctx, entry)
	if err != nil {
		return nil, nil, err
	}

	if err := s.rosterRepo.Create(ctx, entry); err != nil {
		return nil, nil, err
	}
	return entry, warnings, nil
}

func (s *RosterService) UpdateEntry(ctx context.Context, userID uuid.UUID, championID string, input RosterEntryInput) (*domain.RosterEntry, []domain.Warning, error) {
	input.ChampionID = championID
	if err := validateRosterInput(input); err != nil {
		return nil, nil, err
	}

	entry, err := s.rosterRepo.GetEntry(ctx, userID, championID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrRosterEntryNotFound
		}
		return nil, nil, err
	}

	updated, err := entryFromInput(userID, input)
	if err != nil {
		return nil, nil, err
	}
	entry.StarTier = updated.StarTier
	entry.ForceLevel = updated.ForceLevel
	entry.Gear = updated.Gear
	entry.LegacyPiece = updated.LegacyPiece
	entry.UpdatedAt = time.Now()

	warnings, err := s.rescore(ctx, entry)
	if err != nil {
		return nil, nil, err
	}

	if err := s.rosterRepo.Update(ctx, entry); err != nil {
		return nil, nil, err
	}
	return entry, warnings, nil
}

func (s *RosterService) RemoveEntry(ctx context.Context, userID uuid.UUID, championID string) error {
	if err := s.rosterRepo.Delete(ctx, userID, championID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRosterEntryNotFound
		}
		return err
	}
	return nil
}

// GetRoster returns the user's entries, refreshing any cached score
// computed under an older balance version.
func (s *RosterService) GetRoster(ctx context.Context, userID uuid.UUID) ([]*domain.RosterEntry, error) {
	entries, err := s.rosterRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.refreshStale(ctx, entries)
	return entries, nil
}

// Entries returns the raw roster without touching cached scores. Export
// uses this; it only needs the inputs.
func (s *RosterService) Entries(ctx context.Context, userID uuid.UUID) ([]*domain.RosterEntry, error) {
	return s.rosterRepo.GetByUser(ctx, userID)
}

// Snapshot builds the engine view of the user's roster with scores
// computed fresh against the current balance snapshot.
func (s *RosterService) Snapshot(ctx context.Context, userID uuid.UUID) ([]scoring.Champion, error) {
	entries, err := s.rosterRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	defs, err := s.championIndex(ctx)
	if err != nil {
		return nil, err
	}

	snap := s.balance.Current()
	roster := make([]scoring.Champion, 0, len(entries))
	for _, entry := range entries {
		ch, err := snapshotChampion(entry, defs[entry.ChampionID])
		if err != nil {
			log.Printf("WARN [RosterService.Snapshot]: %v", err)
			continue
		}
		ch.IndividualScore = scoring.IndividualScore(ch, snap.Constants)
		roster = append(roster, ch)
	}
	return roster, nil
}

// ApplyImport replaces the user's roster with the parsed records. Records
// whose champion has no definition are skipped with a warning; modifier
// names the balance table does not know are kept and warned about.
func (s *RosterService) ApplyImport(ctx context.Context, userID uuid.UUID, records []transfer.ChampionRecord) ([]*domain.RosterEntry, []domain.Warning, error) {
	defs, err := s.championIndex(ctx)
	if err != nil {
		return nil, nil, err
	}

	var warnings []domain.Warning
	entries := make([]*domain.RosterEntry, 0, len(records))
	for _, rec := range records {
		if defs[rec.ChampionID] == nil {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarningUnknownReference,
				Subject: rec.ChampionID,
				Field:   "championId",
				Message: "champion has no definition, entry skipped",
			})
			continue
		}
		entry, err := entryFromRecord(userID, rec)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, entry)
	}

	snap := s.balance.Current()
	refWarnings, err := s.refs.ValidateRoster(ctx, entries, snap.Constants)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, refWarnings...)

	for _, entry := range entries {
		ch, err := snapshotChampion(entry, defs[entry.ChampionID])
		if err != nil {
			return nil, nil, err
		}
		entry.IndividualScore = scoring.IndividualScore(ch, snap.Constants)
		entry.BalanceVersion = snap.Version
	}

	if err := s.rosterRepo.ReplaceAll(ctx, userID, entries); err != nil {
		return nil, nil, err
	}
	return entries, warnings, nil
}

// rescore validates one entry and recomputes its cached score.
func (s *RosterService) rescore(ctx context.Context, entry *domain.RosterEntry) ([]domain.Warning, error) {
	snap := s.balance.Current()
	warnings, err := s.refs.ValidateRoster(ctx, []*domain.RosterEntry{entry}, snap.Constants)
	if err != nil {
		return nil, err
	}

	def, err := s.refs.GetChampion(ctx, entry.ChampionID)
	if err != nil && !errors.Is(err, domain.ErrChampionNotFound) {
		return nil, err
	}
	ch, err := snapshotChampion(entry, def)
	if err != nil {
		return nil, err
	}
	entry.IndividualScore = scoring.IndividualScore(ch, snap.Constants)
	entry.BalanceVersion = snap.Version
	return warnings, nil
}

// refreshStale recomputes and persists scores stamped with an older
// balance version. Failures are logged, not surfaced; the fresh score is
// already on the returned entries.
func (s *RosterService) refreshStale(ctx context.Context, entries []*domain.RosterEntry) {
	snap := s.balance.Current()
	var stale []*domain.RosterEntry
	for _, entry := range entries {
		if entry.BalanceVersion != snap.Version {
			stale = append(stale, entry)
		}
	}
	if len(stale) == 0 {
		return
	}

	defs, err := s.championIndex(ctx)
	if err != nil {
		log.Printf("WARN [RosterService.refreshStale]: load definitions: %v", err)
		return
	}
	for _, entry := range stale {
		ch, err := snapshotChampion(entry, defs[entry.ChampionID])
		if err != nil {
			log.Printf("WARN [RosterService.refreshStale]: %v", err)
			continue
		}
		entry.IndividualScore = scoring.IndividualScore(ch, snap.Constants)
		entry.BalanceVersion = snap.Version
		if err := s.rosterRepo.Update(ctx, entry); err != nil {
			log.Printf("WARN [RosterService.refreshStale]: persist entry %s: %v", entry.ID, err)
		}
	}
}

func (s *RosterService) championIndex(ctx context.Context) (map[string]*domain.ChampionDefinition, error) {
	defs, err := s.refs.GetChampions(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*domain.ChampionDefinition, len(defs))
	for _, def := range defs {
		index[def.ID] = def
	}
	return index, nil
}

func validateRosterInput(input RosterEntryInput) error {
	if input.ForceLevel < scoring.MinForceLevel || input.ForceLevel > scoring.MaxForceLevel {
		return domain.ErrInvalidForceLevel
	}
	for slot := range input.Gear {
		if !knownGearSlot(slot) {
			return fmt.Errorf("%w: %s", domain.ErrInvalidGearSlot, slot)
		}
	}
	return nil
}

func knownGearSlot(name string) bool {
	for _, slot := range scoring.GearSlots {
		if string(slot) == name {
			return true
		}
	}
	return false
}

func entryFromInput(userID uuid.UUID, input RosterEntryInput) (*domain.RosterEntry, error) {
	entry := &domain.RosterEntry{
		ID:         uuid.New(),
		UserID:     userID,
		ChampionID: input.ChampionID,
		StarTier:   input.StarTier,
		ForceLevel: input.ForceLevel,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if entry.StarTier == "" {
		entry.StarTier = scoring.TierUnlocked
	}
	if len(input.Gear) > 0 {
		data, err := json.Marshal(input.Gear)
		if err != nil {
			return nil, err
		}
		entry.Gear = datatypes.JSON(data)
	}
	if input.LegacyPiece != nil && input.LegacyPiece.ID != "" {
		piece := *input.LegacyPiece
		if piece.Rarity == "" {
			piece.Rarity = scoring.LegacyNone
		}
		if piece.StarTier == "" {
			piece.StarTier = scoring.LegacyNone
		}
		data, err := json.Marshal(piece)
		if err != nil {
			return nil, err
		}
		entry.LegacyPiece = datatypes.JSON(data)
	}
	return entry, nil
}

func entryFromRecord(userID uuid.UUID, rec transfer.ChampionRecord) (*domain.RosterEntry, error) {
	input := RosterEntryInput{
		ChampionID: rec.ChampionID,
		StarTier:   rec.StarTier,
		ForceLevel: rec.ForceLevel,
		Gear:       rec.Gear,
	}
	if rec.LegacyPiece != nil {
		input.LegacyPiece = &domain.EquippedLegacyPiece{
			ID:       rec.LegacyPiece.ID,
			Rarity:   rec.LegacyPiece.Rarity,
			StarTier: rec.LegacyPiece.StarTier,
		}
	}
	return entryFromInput(userID, input)
}

// snapshotChampion builds the engine view of one roster entry. A nil
// definition still produces a champion; it scores as zero-base and the
// validation pass reports it.
func snapshotChampion(entry *domain.RosterEntry, def *domain.ChampionDefinition) (scoring.Champion, error) {
	ch := scoring.Champion{
		ID:         entry.ChampionID,
		StarTier:   entry.StarTier,
		ForceLevel: entry.ForceLevel,
	}
	if def != nil {
		ch.Name = def.Name
		ch.Class = def.Class
		ch.BaseRarity = def.BaseRarity
		ch.Healer = def.Healer
		tags, err := def.TagList()
		if err != nil {
			return scoring.Champion{}, fmt.Errorf("champion %s: decode tags: %w", entry.ChampionID, err)
		}
		ch.SynergyTags = tags
	}
	if len(entry.Gear) > 0 {
		var gear map[string]string
		if err := json.Unmarshal(entry.Gear, &gear); err != nil {
			return scoring.Champion{}, fmt.Errorf("champion %s: decode gear: %w", entry.ChampionID, err)
		}
		ch.Gear = make(map[scoring.GearSlot]string, len(gear))
		for slot, rarity := range gear {
			ch.Gear[scoring.GearSlot(slot)] = rarity
		}
	}
	if len(entry.LegacyPiece) > 0 {
		var piece domain.EquippedLegacyPiece
		if err := json.Unmarshal(entry.LegacyPiece, &piece); err != nil {
			return scoring.Champion{}, fmt.Errorf("champion %s: decode legacy piece: %w", entry.ChampionID, err)
		}
		if piece.ID != "" {
			ch.LegacyPiece = &scoring.LegacyPiece{ID: piece.ID, Rarity: piece.Rarity, StarTier: piece.StarTier}
		}
	}
	return ch, nil
}
