package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SeedResult struct {
	Champions    int `json:"champions"`
	Synergies    int `json:"synergies"`
	LegacyPieces int `json:"legacyPieces"`
}

type RosterEntry struct {
	ChampionID      string  `json:"championId"`
	StarTier        string  `json:"starTier"`
	IndividualScore float64 `json:"individualScore"`
}

type RosterEntryResponse struct {
	Entry    RosterEntry `json:"entry"`
	Warnings []Warning   `json:"warnings"`
}

type Warning struct {
	Code    string `json:"code"`
	Subject string `json:"subject"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type TeamMember struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Class           string  `json:"class"`
	IndividualScore float64 `json:"individualScore"`
}

type ActiveSynergy struct {
	Name            string  `json:"name"`
	MemberCount     int     `json:"memberCount"`
	CalculatedBonus float64 `json:"calculatedBonus"`
	DepthBonus      float64 `json:"depthBonus"`
}

type TeamEvaluation struct {
	Members         []TeamMember    `json:"members"`
	TotalScore      float64         `json:"totalScore"`
	ComparisonScore float64         `json:"comparisonScore"`
	ActiveSynergies []ActiveSynergy `json:"activeSynergies"`
}

type SavedTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ShareResponse struct {
	ShareCode string `json:"shareCode"`
	URL       string `json:"url"`
}

type OptimizeRequest struct {
	RequireHealer bool     `json:"requireHealer"`
	ExcludeIDs    []string `json:"excludeIds,omitempty"`
}

type JobView struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	StatusText string          `json:"statusText"`
	Percent    float64         `json:"percent"`
	Result     *TeamEvaluation `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Seed request types

type ChampionDef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Class      string   `json:"class"`
	BaseRarity string   `json:"baseRarity"`
	Healer     bool     `json:"healer"`
	Tags       []string `json:"synergyTags"`
}

type SynergyTierDef struct {
	CountRequired int    `json:"countRequired"`
	Description   string `json:"description"`
}

type SynergyDef struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	BonusType  string           `json:"bonusType"`
	BonusValue float64          `json:"bonusValue"`
	Tiers      []SynergyTierDef `json:"tiers,omitempty"`
}

type LegacyPieceDef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BaseRarity string `json:"baseRarity"`
}

type LegacyPieceRequest struct {
	ID       string `json:"id"`
	Rarity   string `json:"rarity"`
	StarTier string `json:"starTier"`
}

type RosterEntryRequest struct {
	ChampionID  string              `json:"championId"`
	StarTier    string              `json:"starTier"`
	ForceLevel  int                 `json:"forceLevel"`
	Gear        map[string]string   `json:"gear,omitempty"`
	LegacyPiece *LegacyPieceRequest `json:"legacyPiece,omitempty"`
}

// RegisterUser creates a new user account
func (c *APIClient) RegisterUser(baseName string) (*User, string, error) {
	username := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)

	body := map[string]string{
		"username": username,
		"password": "testpassword123",
	}

	resp, err := c.post("/auth/register", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("register failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, result.AccessToken, nil
}

// Login authenticates an existing account
func (c *APIClient) Login(username, password string) (*User, string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := c.post("/auth/login", body, "")
	if err != nil {
		return nil, "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("login failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &result.User, result.AccessToken, nil
}

// SeedReference loads the demo reference collections
func (c *APIClient) SeedReference(token string) (*SeedResult, error) {
	body := map[string]interface{}{
		"champions":    demoChampions(),
		"synergies":    demoSynergies(),
		"legacyPieces": demoPieces(),
	}

	resp, err := c.post("/admin/reference", body, token)
	if err != nil {
		return nil, fmt.Errorf("seed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("seed failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result SeedResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// AddRosterEntry adds one champion to the authenticated user's roster
func (c *APIClient) AddRosterEntry(token string, entry RosterEntryRequest) (*RosterEntryResponse, error) {
	resp, err := c.post("/roster", entry, token)
	if err != nil {
		return nil, fmt.Errorf("add roster entry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("add roster entry failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RosterEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// EvaluateTeam scores an ad-hoc five-member team
func (c *APIClient) EvaluateTeam(token string, memberIDs []string) (*TeamEvaluation, error) {
	body := map[string][]string{"memberIds": memberIDs}

	resp, err := c.post("/teams/evaluate", body, token)
	if err != nil {
		return nil, fmt.Errorf("evaluate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("evaluate failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result TeamEvaluation
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// SaveTeam persists a named team
func (c *APIClient) SaveTeam(token, name string, memberIDs []string) (*SavedTeam, error) {
	body := map[string]interface{}{
		"name":      name,
		"memberIds": memberIDs,
	}

	resp, err := c.post("/teams", body, token)
	if err != nil {
		return nil, fmt.Errorf("save team request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("save team failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var team SavedTeam
	if err := json.NewDecoder(resp.Body).Decode(&team); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &team, nil
}

// ShareTeam publishes a saved team under a short code
func (c *APIClient) ShareTeam(token, teamID string) (*ShareResponse, error) {
	resp, err := c.post("/teams/"+teamID+"/share", nil, token)
	if err != nil {
		return nil, fmt.Errorf("share request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("share failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var share ShareResponse
	if err := json.NewDecoder(resp.Body).Decode(&share); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &share, nil
}

// StartOptimize launches a best-team search job
func (c *APIClient) StartOptimize(token string, req OptimizeRequest) (*JobView, error) {
	resp, err := c.post("/optimize", req, token)
	if err != nil {
		return nil, fmt.Errorf("optimize request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("optimize failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var job JobView
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &job, nil
}

// GetJob polls an optimization job
func (c *APIClient) GetJob(token, jobID string) (*JobView, error) {
	resp, err := c.get("/optimize/"+jobID, token)
	if err != nil {
		return nil, fmt.Errorf("get job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job failed (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var job JobView
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &job, nil
}

// Demo reference data

func demoChampions() []ChampionDef {
	return []ChampionDef{
		{ID: "superman", Name: "Superman", Class: "Fighter", BaseRarity: "Mythic", Tags: []string{"Justice League"}},
		{ID: "batman", Name: "Batman", Class: "Controller", BaseRarity: "Legendary", Tags: []string{"Justice League", "Gotham Knights"}},
		{ID: "wonder-woman", Name: "Wonder Woman", Class: "Tank", BaseRarity: "Legendary", Tags: []string{"Justice League"}},
		{ID: "flash", Name: "The Flash", Class: "Blaster", BaseRarity: "Epic", Tags: []string{"Justice League"}},
		{ID: "aquaman", Name: "Aquaman", Class: "Tank", BaseRarity: "Legendary", Tags: []string{"Justice League"}},
		{ID: "cyborg", Name: "Cyborg", Class: "Blaster", BaseRarity: "Epic", Tags: []string{"Justice League", "Titans"}},
		{ID: "zatanna", Name: "Zatanna", Class: "Mystic", BaseRarity: "Epic", Healer: true, Tags: []string{"Magic Users"}},
		{ID: "constantine", Name: "Constantine", Class: "Mystic", BaseRarity: "Epic", Tags: []string{"Magic Users"}},
		{ID: "raven", Name: "Raven", Class: "Mystic", BaseRarity: "Legendary", Healer: true, Tags: []string{"Magic Users", "Titans"}},
		{ID: "nightwing", Name: "Nightwing", Class: "Fighter", BaseRarity: "Epic", Tags: []string{"Gotham Knights", "Titans"}},
		{ID: "batgirl", Name: "Batgirl", Class: "Support", BaseRarity: "Epic", Healer: true, Tags: []string{"Gotham Knights"}},
		{ID: "starfire", Name: "Starfire", Class: "Blaster", BaseRarity: "Epic", Tags: []string{"Titans"}},
		{ID: "harley-quinn", Name: "Harley Quinn", Class: "N/A", BaseRarity: "Epic", Tags: []string{}},
	}
}

func demoSynergies() []SynergyDef {
	return []SynergyDef{
		{ID: "justice-league", Name: "Justice League", BonusType: "percentage", BonusValue: 5, Tiers: []SynergyTierDef{
			{CountRequired: 2, Description: "United We Stand"},
			{CountRequired: 4, Description: "World's Finest"},
		}},
		{ID: "gotham-knights", Name: "Gotham Knights", BonusType: "flat", BonusValue: 75},
		{ID: "magic-users", Name: "Magic Users", BonusType: "flat", BonusValue: 40},
		{ID: "titans", Name: "Titans", BonusType: "percentage", BonusValue: 3},
	}
}

func demoPieces() []LegacyPieceDef {
	return []LegacyPieceDef{
		{ID: "cape-of-hope", Name: "Cape of Hope", BaseRarity: "Epic"},
		{ID: "lasso-of-truth", Name: "Lasso of Truth", BaseRarity: "Legendary"},
		{ID: "helmet-of-fate", Name: "Helmet of Fate", BaseRarity: "Mythic"},
	}
}

// HTTP helpers

func (c *APIClient) get(path, token string) (*http.Response, error) {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

func (c *APIClient) post(path string, body interface{}, token string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}
