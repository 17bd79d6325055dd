package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/theo/champion-teams-website/internal/domain"
	"github.com/theo/champion-teams-website/internal/scoring"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"username": b.username,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:       userID,
		Username: authResp.User.Username,
	}

	return user, authResp.AccessToken
}

// ChampionBuilder creates champion definitions
type ChampionBuilder struct {
	id         string
	name       string
	class      string
	baseRarity string
	healer     bool
	tags       []string
}

// NewChampionBuilder creates a new ChampionBuilder with default values
func NewChampionBuilder() *ChampionBuilder {
	id := fmt.Sprintf("champion-%s", uuid.New().String()[:8])
	return &ChampionBuilder{
		id:         id,
		name:       id,
		class:      string(domain.ClassFighter),
		baseRarity: scoring.RarityEpic,
		tags:       []string{"Justice League"},
	}
}

// WithID sets the champion ID
func (b *ChampionBuilder) WithID(id string) *ChampionBuilder {
	b.id = id
	b.name = id
	return b
}

// WithName sets the display name
func (b *ChampionBuilder) WithName(name string) *ChampionBuilder {
	b.name = name
	return b
}

// WithClass sets the champion class
func (b *ChampionBuilder) WithClass(class string) *ChampionBuilder {
	b.class = class
	return b
}

// WithRarity sets the base rarity
func (b *ChampionBuilder) WithRarity(rarity string) *ChampionBuilder {
	b.baseRarity = rarity
	return b
}

// WithHealer marks the champion as a healer
func (b *ChampionBuilder) WithHealer() *ChampionBuilder {
	b.healer = true
	return b
}

// WithTags sets the synergy tags
func (b *ChampionBuilder) WithTags(tags ...string) *ChampionBuilder {
	b.tags = tags
	return b
}

// Build creates the champion definition in the database
func (b *ChampionBuilder) Build(t *testing.T, db *gorm.DB) *domain.ChampionDefinition {
	t.Helper()

	tagsJSON, _ := json.Marshal(b.tags)
	champion := &domain.ChampionDefinition{
		ID:          b.id,
		Name:        b.name,
		Class:       b.class,
		BaseRarity:  b.baseRarity,
		Healer:      b.healer,
		SynergyTags: datatypes.JSON(tagsJSON),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(champion).Error; err != nil {
		t.Fatalf("failed to create champion definition: %v", err)
	}

	return champion
}

// SynergyBuilder creates synergy definitions
type SynergyBuilder struct {
	id          string
	name        string
	bonusType   string
	bonusValue  float64
	description string
	tiers       []scoring.SynergyTier
}

// NewSynergyBuilder creates a new SynergyBuilder for a flat synergy
func NewSynergyBuilder(name string) *SynergyBuilder {
	return &SynergyBuilder{
		id:         fmt.Sprintf("synergy-%s", uuid.New().String()[:8]),
		name:       name,
		bonusType:  string(scoring.BonusTypeFlat),
		bonusValue: 50,
	}
}

// Percentage makes the synergy a percentage bonus
func (b *SynergyBuilder) Percentage(value float64) *SynergyBuilder {
	b.bonusType = string(scoring.BonusTypePercentage)
	b.bonusValue = value
	return b
}

// Flat makes the synergy a flat bonus
func (b *SynergyBuilder) Flat(value float64) *SynergyBuilder {
	b.bonusType = string(scoring.BonusTypeFlat)
	b.bonusValue = value
	return b
}

// WithTiers sets tier requirements as (count, description) pairs
func (b *SynergyBuilder) WithTiers(tiers ...scoring.SynergyTier) *SynergyBuilder {
	b.tiers = tiers
	return b
}

// Build creates the synergy definition in the database
func (b *SynergyBuilder) Build(t *testing.T, db *gorm.DB) *domain.SynergyDefinition {
	t.Helper()

	def := &domain.SynergyDefinition{
		ID:          b.id,
		Name:        b.name,
		BonusType:   b.bonusType,
		BonusValue:  b.bonusValue,
		Description: b.description,
		UpdatedAt:   time.Now(),
	}

	if len(b.tiers) > 0 {
		tiersJSON, _ := json.Marshal(b.tiers)
		def.Tiers = datatypes.JSON(tiersJSON)
	}

	if err := db.Create(def).Error; err != nil {
		t.Fatalf("failed to create synergy definition: %v", err)
	}

	return def
}

// RosterEntryBuilder creates roster entries directly in the database.
// Entries start without a cached score; services recompute on read.
type RosterEntryBuilder struct {
	userID      uuid.UUID
	championID  string
	starTier    string
	forceLevel  int
	gear        map[string]string
	legacyPiece *domain.EquippedLegacyPiece
}

// NewRosterEntryBuilder creates a builder for the given user and champion
func NewRosterEntryBuilder(userID uuid.UUID, championID string) *RosterEntryBuilder {
	return &RosterEntryBuilder{
		userID:     userID,
		championID: championID,
		starTier:   scoring.TierUnlocked,
	}
}

// WithStarTier sets the star tier
func (b *RosterEntryBuilder) WithStarTier(tier string) *RosterEntryBuilder {
	b.starTier = tier
	return b
}

// WithForceLevel sets the force level
func (b *RosterEntryBuilder) WithForceLevel(level int) *RosterEntryBuilder {
	b.forceLevel = level
	return b
}

// WithGear sets the gear map (slot name to rarity)
func (b *RosterEntryBuilder) WithGear(gear map[string]string) *RosterEntryBuilder {
	b.gear = gear
	return b
}

// WithLegacyPiece equips a legacy piece
func (b *RosterEntryBuilder) WithLegacyPiece(piece *domain.EquippedLegacyPiece) *RosterEntryBuilder {
	b.legacyPiece = piece
	return b
}

// Build creates the roster entry in the database
func (b *RosterEntryBuilder) Build(t *testing.T, db *gorm.DB) *domain.RosterEntry {
	t.Helper()

	entry := &domain.RosterEntry{
		ID:         uuid.New(),
		UserID:     b.userID,
		ChampionID: b.championID,
		StarTier:   b.starTier,
		ForceLevel: b.forceLevel,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if b.gear != nil {
		gearJSON, _ := json.Marshal(b.gear)
		entry.Gear = datatypes.JSON(gearJSON)
	}
	if b.legacyPiece != nil {
		pieceJSON, _ := json.Marshal(b.legacyPiece)
		entry.LegacyPiece = datatypes.JSON(pieceJSON)
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create roster entry: %v", err)
	}

	return entry
}

// ReferenceData is the standard reference set seeded for integration tests.
type ReferenceData struct {
	Champions []*domain.ChampionDefinition
	Synergies []*domain.SynergyDefinition
	Pieces    []*domain.LegacyPieceDefinition
}

// SeedReferenceData loads a small but realistic reference set: eight
// champions spread over five classes, a tiered percentage synergy, a flat
// synergy and two legacy pieces.
func SeedReferenceData(t *testing.T, db *gorm.DB) *ReferenceData {
	t.Helper()

	champions := []*domain.ChampionDefinition{
		NewChampionBuilder().WithID("superman").WithName("Superman").
			WithClass(string(domain.ClassFighter)).WithRarity(scoring.RarityMythic).
			WithTags("Justice League").Build(t, db),
		NewChampionBuilder().WithID("batman").WithName("Batman").
			WithClass(string(domain.ClassController)).WithRarity(scoring.RarityLegendary).
			WithTags("Justice League", "Gotham Knights").Build(t, db),
		NewChampionBuilder().WithID("wonder-woman").WithName("Wonder Woman").
			WithClass(string(domain.ClassTank)).WithRarity(scoring.RarityLegendary).
			WithTags("Justice League").Build(t, db),
		NewChampionBuilder().WithID("flash").WithName("The Flash").
			WithClass(string(domain.ClassBlaster)).WithRarity(scoring.RarityEpic).
			WithTags("Justice League").Build(t, db),
		NewChampionBuilder().WithID("zatanna").WithName("Zatanna").
			WithClass(string(domain.ClassMystic)).WithRarity(scoring.RarityEpic).
			WithHealer().WithTags("Magic Users").Build(t, db),
		NewChampionBuilder().WithID("nightwing").WithName("Nightwing").
			WithClass(string(domain.ClassFighter)).WithRarity(scoring.RarityEpic).
			WithTags("Gotham Knights").Build(t, db),
		NewChampionBuilder().WithID("batgirl").WithName("Batgirl").
			WithClass(string(domain.ClassSupport)).WithRarity(scoring.RarityEpic).
			WithHealer().WithTags("Gotham Knights").Build(t, db),
		NewChampionBuilder().WithID("harley-quinn").WithName("Harley Quinn").
			WithClass(scoring.ClassNone).WithRarity(scoring.RarityEpic).
			WithTags().Build(t, db),
	}

	synergies := []*domain.SynergyDefinition{
		NewSynergyBuilder("Justice League").Percentage(5).WithTiers(
			scoring.SynergyTier{CountRequired: 2, Description: "United We Stand"},
			scoring.SynergyTier{CountRequired: 4, Description: "World's Finest"},
		).Build(t, db),
		NewSynergyBuilder("Gotham Knights").Flat(75).Build(t, db),
		NewSynergyBuilder("Magic Users").Flat(40).Build(t, db),
	}

	pieces := []*domain.LegacyPieceDefinition{
		{ID: "cape-of-hope", Name: "Cape of Hope", BaseRarity: scoring.LegacyEpic, UpdatedAt: time.Now()},
		{ID: "lasso-of-truth", Name: "Lasso of Truth", BaseRarity: scoring.LegacyLegendary, UpdatedAt: time.Now()},
	}
	for _, p := range pieces {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to create legacy piece: %v", err)
		}
	}

	return &ReferenceData{Champions: champions, Synergies: synergies, Pieces: pieces}
}

// SeedRoster adds every seeded champion to the user's roster at the
// given star tier and returns the champion IDs in seed order.
func SeedRoster(t *testing.T, db *gorm.DB, userID uuid.UUID, refs *ReferenceData, starTier string) []string {
	t.Helper()

	ids := make([]string, 0, len(refs.Champions))
	for _, c := range refs.Champions {
		NewRosterEntryBuilder(userID, c.ID).WithStarTier(starTier).Build(t, db)
		ids = append(ids, c.ID)
	}
	return ids
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
