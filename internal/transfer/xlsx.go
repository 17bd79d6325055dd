package transfer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/theo/champion-teams-website/internal/scoring"
)

// TeamSummary is one saved team row on the workbook's Teams sheet.
type TeamSummary struct {
	Name            string
	Members         []string
	TotalScore      float64
	ComparisonScore float64
}

var rosterHeader = []string{
	"Champion", "Class", "Rarity", "Star Tier", "Force",
	"Head", "Arms", "Legs", "Chest", "Waist",
	"Legacy Piece", "Tags", "Score",
}

var teamsHeader = []string{"Team", "Members", "Total Score", "Comparison Score"}

// ExportXLSX renders the roster and saved teams as a two-sheet workbook,
// returned as an in-memory buffer ready to stream over HTTP.
func ExportXLSX(roster []scoring.Champion, teams []TeamSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const rosterSheet = "Roster"
	const teamsSheet = "Teams"

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, fmt.Errorf("xlsx rename sheet: %w", err)
	}
	if _, err := f.NewSheet(teamsSheet); err != nil {
		return nil, fmt.Errorf("xlsx new sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for c, v := range rosterHeader {
		if err := f.SetCellValue(rosterSheet, cellName(c, 1), v); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(rosterSheet, "A1", cellName(len(rosterHeader)-1, 1), headerStyle); err != nil {
		return nil, err
	}

	for i, ch := range roster {
		row := i + 2
		cells := []interface{}{ch.Name, ch.Class, ch.BaseRarity, ch.StarTier, ch.ForceLevel}
		for _, slot := range scoring.GearSlots {
			cells = append(cells, ch.Gear[slot])
		}
		cells = append(cells, legacyLabel(ch.LegacyPiece), strings.Join(ch.SynergyTags, ", "), ch.IndividualScore)
		for c, v := range cells {
			if err := f.SetCellValue(rosterSheet, cellName(c, row), v); err != nil {
				return nil, err
			}
		}
	}

	for c, v := range teamsHeader {
		if err := f.SetCellValue(teamsSheet, cellName(c, 1), v); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(teamsSheet, "A1", cellName(len(teamsHeader)-1, 1), headerStyle); err != nil {
		return nil, err
	}
	for i, team := range teams {
		row := i + 2
		cells := []interface{}{team.Name, strings.Join(team.Members, ", "), team.TotalScore, team.ComparisonScore}
		for c, v := range cells {
			if err := f.SetCellValue(teamsSheet, cellName(c, row), v); err != nil {
				return nil, err
			}
		}
	}

	if idx, err := f.GetSheetIndex(rosterSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	return f.WriteToBuffer()
}

func legacyLabel(piece *scoring.LegacyPiece) string {
	if piece == nil {
		return ""
	}
	name := piece.Name
	if name == "" {
		name = piece.ID
	}
	return fmt.Sprintf("%s (%s, %s)", name, piece.Rarity, piece.StarTier)
}

func cellName(colZeroBased int, rowOneBased int) string {
	col := colZeroBased + 1
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return fmt.Sprintf("%s%d", name, rowOneBased)
}
