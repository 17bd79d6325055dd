package transfer

import (
	"encoding/json"
	"time"

	"github.com/theo/champion-teams-website/internal/domain"
)

// Export renders a user's roster entries as the interchange document.
func Export(entries []*domain.RosterEntry) ([]byte, error) {
	doc := Document{
		Version:    DocumentVersion,
		ExportedAt: time.Now().UTC(),
		Champions:  make([]ChampionRecord, 0, len(entries)),
	}

	for _, entry := range entries {
		record := ChampionRecord{
			ChampionID: entry.ChampionID,
			StarTier:   entry.StarTier,
			ForceLevel: entry.ForceLevel,
		}
		if len(entry.Gear) > 0 {
			var gear map[string]string
			if err := json.Unmarshal(entry.Gear, &gear); err != nil {
				return nil, err
			}
			record.Gear = gear
		}
		if len(entry.LegacyPiece) > 0 {
			var piece domain.EquippedLegacyPiece
			if err := json.Unmarshal(entry.LegacyPiece, &piece); err != nil {
				return nil, err
			}
			if piece.ID != "" {
				record.LegacyPiece = &LegacyRecord{ID: piece.ID, Rarity: piece.Rarity, StarTier: piece.StarTier}
			}
		}
		doc.Champions = append(doc.Champions, record)
	}

	return json.MarshalIndent(doc, "", "  ")
}
