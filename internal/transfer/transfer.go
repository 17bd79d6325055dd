// Package transfer handles roster interchange: a versioned JSON document
// for import/export and an XLSX workbook for spreadsheet users. Documents
// come from other tools and older exports, so unknown fields are ignored
// and broken entries are skipped with warnings instead of failing the
// whole import.
package transfer

import (
	"errors"
	"time"
)

// DocumentVersion is the format written by Export.
const DocumentVersion = 1

var ErrMalformedDocument = errors.New("malformed roster document")

// Document is the JSON interchange shape.
type Document struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Champions  []ChampionRecord `json:"champions"`
}

// ChampionRecord is one roster entry in interchange form: the champion
// reference plus the player's investment, nothing derived.
type ChampionRecord struct {
	ChampionID  string            `json:"championId"`
	StarTier    string            `json:"starTier"`
	ForceLevel  int               `json:"forceLevel"`
	Gear        map[string]string `json:"gear,omitempty"`
	LegacyPiece *LegacyRecord     `json:"legacyPiece,omitempty"`
}

type LegacyRecord struct {
	ID       string `json:"id"`
	Rarity   string `json:"rarity"`
	StarTier string `json:"starTier"`
}
