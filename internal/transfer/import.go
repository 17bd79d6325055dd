package transfer

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/scoring"
)

// ImportResult is the parsed side of an import. Warnings explain every
// entry or field that was skipped; the caller validates the survivors
// against reference data.
type ImportResult struct {
	Champions []ChampionRecord
	Warnings  []domain.Warning
}

// Parse reads a roster document leniently: unknown fields are ignored,
// missing optional fields get defaults and entries without a champion
// reference are dropped with a warning. Only a document that is not JSON
// at all, or has no champions list, is an error.
func Parse(data []byte) (*ImportResult, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformedDocument)
	}
	root := gjson.ParseBytes(data)

	champions := root.Get("champions")
	if !champions.IsArray() {
		return nil, fmt.Errorf("%w: missing champions list", ErrMalformedDocument)
	}

	result := &ImportResult{}
	seen := make(map[string]bool)

	champions.ForEach(func(index, v gjson.Result) bool {
		subject := fmt.Sprintf("champions[%d]", int(index.Int()))

		// Older exports used "id" instead of "championId"
		id := v.Get("championId").String()
		if id == "" {
			id = v.Get("id").String()
		}
		if id == "" {
			result.warn(subject, "championId", "entry has no champion reference, skipped")
			return true
		}
		if seen[id] {
			result.warn(id, "championId", "duplicate entry, first one kept")
			return true
		}
		seen[id] = true

		record := ChampionRecord{ChampionID: id, StarTier: scoring.TierUnlocked}
		if tier := v.Get("starTier"); tier.Exists() {
			record.StarTier = tier.String()
		}

		force := int(v.Get("forceLevel").Int())
		if force < scoring.MinForceLevel || force > scoring.MaxForceLevel {
			result.warn(id, "forceLevel", fmt.Sprintf("force level %d out of range, reset to 0", force))
			force = 0
		}
		record.ForceLevel = force

		v.Get("gear").ForEach(func(slot, rarity gjson.Result) bool {
			if !knownGearSlot(slot.String()) {
				result.warn(id, "gear", fmt.Sprintf("unknown gear slot %q, skipped", slot.String()))
				return true
			}
			if record.Gear == nil {
				record.Gear = make(map[string]string, len(scoring.GearSlots))
			}
			record.Gear[slot.String()] = rarity.String()
			return true
		})

		if piece := v.Get("legacyPiece"); piece.IsObject() {
			pieceID := piece.Get("id").String()
			if pieceID == "" {
				result.warn(id, "legacyPiece", "legacy piece has no id, skipped")
			} else {
				record.LegacyPiece = &LegacyRecord{
					ID:       pieceID,
					Rarity:   piece.Get("rarity").String(),
					StarTier: piece.Get("starTier").String(),
				}
				if record.LegacyPiece.Rarity == "" {
					record.LegacyPiece.Rarity = scoring.LegacyNone
				}
				if record.LegacyPiece.StarTier == "" {
					record.LegacyPiece.StarTier = scoring.LegacyNone
				}
			}
		}

		result.Champions = append(result.Champions, record)
		return true
	})

	return result, nil
}

func (r *ImportResult) warn(subject, field, message string) {
	r.Warnings = append(r.Warnings, domain.Warning{
		Code:    domain.WarningUnknownReference,
		Subject: subject,
		Field:   field,
		Message: message,
	})
}

func knownGearSlot(name string) bool {
	for _, slot := range scoring.GearSlots {
		if string(slot) == name {
			return true
		}
	}
	return false
}
