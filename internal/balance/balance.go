// Package balance loads and hot-reloads the game balance table the scoring
// engine runs on. Deployments ship a YAML file overriding individual
// defaults; everything not mentioned keeps its shipped value.
package balance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/theo/champion-teams-website/internal/scoring"
)

// Snapshot pairs a constants table with the version it was loaded under.
// Cached individual scores are only valid for the version they were
// computed against.
type Snapshot struct {
	Constants scoring.Constants
	Version   string
}

// Source provides the current balance snapshot. Searches and score writes
// take one snapshot and never observe mid-run changes.
type Source interface {
	Current() Snapshot
}

// Static is a Source with a fixed table, used when no balance file is
// configured and in tests.
type Static struct {
	snap Snapshot
}

func NewStatic(c scoring.Constants) *Static {
	return &Static{snap: Snapshot{Constants: c, Version: "v1"}}
}

func (s *Static) Current() Snapshot {
	return s.snap
}

// overrides mirrors Constants with optional fields so a partial file can
// adjust single values. Map overrides merge per key instead of replacing
// whole tables.
type overrides struct {
	RarityBaseScores         map[string]float64 `yaml:"rarityBaseScores"`
	StarMultipliers          map[string]float64 `yaml:"starMultipliers"`
	GearModifiers            map[string]float64 `yaml:"gearModifiers"`
	LegacyRarityModifiers    map[string]float64 `yaml:"legacyRarityModifiers"`
	LegacyStarModifiers      map[string]float64 `yaml:"legacyStarModifiers"`
	ForceModifiers           map[int]float64    `yaml:"forceModifiers"`
	SynergyTagModifier       *float64           `yaml:"synergyTagModifier"`
	MinSynergyMembers        *int               `yaml:"minSynergyMembers"`
	DepthBonusPerMember      *float64           `yaml:"depthBonusPerMember"`
	ClassDiversityMultiplier *float64           `yaml:"classDiversityMultiplier"`
	IndividualScoreWeight    *float64           `yaml:"individualScoreWeight"`
}

// Load reads a balance file and applies it over the shipped defaults.
// Unknown keys are rejected so typos fail loudly instead of silently
// keeping a default.
func Load(path string) (scoring.Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Constants{}, fmt.Errorf("read balance file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (scoring.Constants, error) {
	var o overrides
	var raw yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return scoring.Constants{}, fmt.Errorf("parse balance file: %w", err)
	}
	if raw.Kind != 0 {
		if err := raw.Decode(&o); err != nil {
			return scoring.Constants{}, fmt.Errorf("parse balance file: %w", err)
		}
		if err := checkKnownKeys(&raw); err != nil {
			return scoring.Constants{}, err
		}
	}

	c := scoring.DefaultConstants()
	mergeMap(c.RarityBaseScores, o.RarityBaseScores)
	mergeMap(c.StarMultipliers, o.StarMultipliers)
	mergeMap(c.GearModifiers, o.GearModifiers)
	mergeMap(c.LegacyRarityModifiers, o.LegacyRarityModifiers)
	mergeMap(c.LegacyStarModifiers, o.LegacyStarModifiers)
	for k, v := range o.ForceModifiers {
		c.ForceModifiers[k] = v
	}
	if o.SynergyTagModifier != nil {
		c.SynergyTagModifier = *o.SynergyTagModifier
	}
	if o.MinSynergyMembers != nil {
		c.MinSynergyMembers = *o.MinSynergyMembers
	}
	if o.DepthBonusPerMember != nil {
		c.DepthBonusPerMember = *o.DepthBonusPerMember
	}
	if o.ClassDiversityMultiplier != nil {
		c.ClassDiversityMultiplier = *o.ClassDiversityMultiplier
	}
	if o.IndividualScoreWeight != nil {
		c.IndividualScoreWeight = *o.IndividualScoreWeight
	}
	return c, nil
}

func mergeMap(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] = v
	}
}

var knownKeys = map[string]bool{
	"rarityBaseScores":         true,
	"starMultipliers":          true,
	"gearModifiers":            true,
	"legacyRarityModifiers":    true,
	"legacyStarModifiers":      true,
	"forceModifiers":           true,
	"synergyTagModifier":       true,
	"minSynergyMembers":        true,
	"depthBonusPerMember":      true,
	"classDiversityMultiplier": true,
	"individualScoreWeight":    true,
}

func checkKnownKeys(root *yaml.Node) error {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(doc.Content)-1; i += 2 {
		key := doc.Content[i].Value
		if !knownKeys[key] {
			return fmt.Errorf("unknown balance key %q (line %d)", key, doc.Content[i].Line)
		}
	}
	return nil
}
