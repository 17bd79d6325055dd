package domain

import "errors"

// Reference data errors
var (
	ErrChampionNotFound    = errors.New("champion not found")
	ErrSynergyNotFound     = errors.New("synergy not found")
	ErrLegacyPieceNotFound = errors.New("legacy piece not found")
)

// Roster errors
var (
	ErrRosterEntryNotFound  = errors.New("roster entry not found")
	ErrDuplicateRosterEntry = errors.New("champion is already in roster")
	ErrInvalidForceLevel    = errors.New("force level must be between 0 and 5")
	ErrInvalidGearSlot      = errors.New("invalid gear slot")
)

// Team errors
var (
	ErrTeamNotFound  = errors.New("team not found")
	ErrShareNotFound = errors.New("shared team not found")
)

// WarningUnknownReference flags roster data that scoring degrades to a
// neutral default instead of failing, e.g. a star tier missing from the
// balance table.
const WarningUnknownReference = "unknown_reference"

// Warning is a non-fatal data problem surfaced alongside results.
type Warning struct {
	Code    string `json:"code"`
	Subject string `json:"subject"` // champion, synergy or piece the warning concerns
	Field   string `json:"field"`
	Message string `json:"message"`
}
