package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
}

type RegisterResponse struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

type SeedResult struct {
	Champions    int `json:"champions"`
	Synergies    int `json:"synergies"`
	LegacyPieces int `json:"legacyPieces"`
}

func registerUser(username, password string) (*User, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &User{
		Username: result.User.Username,
		Password: password,
		Token:    result.AccessToken,
		UserID:   result.User.ID,
	}, nil
}

func postJSON(path, token string, body interface{}) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, _ := http.NewRequest("POST", apiBase+path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return http.DefaultClient.Do(req)
}

func seedReference(token string) (*SeedResult, error) {
	payload := map[string]interface{}{
		"champions": []map[string]interface{}{
			{"id": "superman", "name": "Superman", "class": "Fighter", "baseRarity": "Mythic", "synergyTags": []string{"Justice League"}},
			{"id": "batman", "name": "Batman", "class": "Controller", "baseRarity": "Legendary", "synergyTags": []string{"Justice League", "Gotham Knights"}},
			{"id": "wonder-woman", "name": "Wonder Woman", "class": "Tank", "baseRarity": "Legendary", "synergyTags": []string{"Justice League"}},
			{"id": "flash", "name": "The Flash", "class": "Blaster", "baseRarity": "Epic", "synergyTags": []string{"Justice League"}},
			{"id": "aquaman", "name": "Aquaman", "class": "Tank", "baseRarity": "Legendary", "synergyTags": []string{"Justice League"}},
			{"id": "zatanna", "name": "Zatanna", "class": "Mystic", "baseRarity": "Epic", "healer": true, "synergyTags": []string{"Magic Users"}},
			{"id": "raven", "name": "Raven", "class": "Mystic", "baseRarity": "Legendary", "healer": true, "synergyTags": []string{"Magic Users", "Titans"}},
			{"id": "nightwing", "name": "Nightwing", "class": "Fighter", "baseRarity": "Epic", "synergyTags": []string{"Gotham Knights", "Titans"}},
			{"id": "batgirl", "name": "Batgirl", "class": "Support", "baseRarity": "Epic", "healer": true, "synergyTags": []string{"Gotham Knights"}},
			{"id": "starfire", "name": "Starfire", "class": "Blaster", "baseRarity": "Epic", "synergyTags": []string{"Titans"}},
		},
		"synergies": []map[string]interface{}{
			{"id": "justice-league", "name": "Justice League", "bonusType": "percentage", "bonusValue": 5, "tiers": []map[string]interface{}{
				{"countRequired": 2, "description": "United We Stand"},
				{"countRequired": 4, "description": "World's Finest"},
			}},
			{"id": "gotham-knights", "name": "Gotham Knights", "bonusType": "flat", "bonusValue": 75},
			{"id": "magic-users", "name": "Magic Users", "bonusType": "flat", "bonusValue": 40},
			{"id": "titans", "name": "Titans", "bonusType": "percentage", "bonusValue": 3},
		},
		"legacyPieces": []map[string]interface{}{
			{"id": "cape-of-hope", "name": "Cape of Hope", "baseRarity": "Epic"},
			{"id": "lasso-of-truth", "name": "Lasso of Truth", "baseRarity": "Legendary"},
			{"id": "helmet-of-fate", "name": "Helmet of Fate", "baseRarity": "Mythic"},
		},
	}

	resp, err := postJSON("/admin/reference", token, payload)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("seed failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result SeedResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &result, nil
}

func addRosterEntry(token string, entry map[string]interface{}) error {
	resp, err := postJSON("/roster", token, entry)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("add entry failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	return nil
}

func generateUsername() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("demo_%d_%s", time.Now().Unix(), string(random))
}

func main() {
	fmt.Println("Setting up demo account with reference data and roster...")
	fmt.Println()

	password := "testpassword123"

	fmt.Println("Registering demo user...")
	user, err := registerUser(generateUsername(), password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ User: %s\n", user.Username)

	fmt.Println("\nSeeding reference collections...")
	seeded, err := seedReference(user.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ %d champions, %d synergies, %d legacy pieces\n",
		seeded.Champions, seeded.Synergies, seeded.LegacyPieces)

	roster := []map[string]interface{}{
		{"championId": "superman", "starTier": "Gold 1-Star", "forceLevel": 3,
			"gear": map[string]string{"head": "Epic", "arms": "Epic", "legs": "Epic", "chest": "Epic", "waist": "Epic"}},
		{"championId": "batman", "starTier": "Purple 3-Star", "forceLevel": 2},
		{"championId": "wonder-woman", "starTier": "Purple 1-Star",
			"legacyPiece": map[string]string{"id": "lasso-of-truth", "rarity": "Legendary", "starTier": "White 2-Star"}},
		{"championId": "flash", "starTier": "Blue 4-Star"},
		{"championId": "aquaman", "starTier": "Blue 2-Star"},
		{"championId": "zatanna", "starTier": "Blue 1-Star"},
		{"championId": "raven", "starTier": "Purple 2-Star", "forceLevel": 2},
		{"championId": "nightwing", "starTier": "Blue 3-Star"},
		{"championId": "batgirl", "starTier": "White 4-Star"},
		{"championId": "starfire", "starTier": "Blue 5-Star"},
	}

	fmt.Println("\nBuilding roster...")
	for _, entry := range roster {
		if err := addRosterEntry(user.Token, entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to add %v: %v\n", entry["championId"], err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ %s\n", entry["championId"])
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("DEMO ACCOUNT READY")
	fmt.Println("============================================================")
	fmt.Printf("\n  Username: %s\n  Password: %s\n", user.Username, user.Password)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Login with the credentials above")
	fmt.Println("  2. POST /api/v1/optimize to search for the best team")
	fmt.Println("  3. Subscribe to /api/v1/ws?token=<accessToken>&job=<jobID> for live progress")

	output := map[string]interface{}{
		"user": user,
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("JSON OUTPUT (for scripts):")
	fmt.Println("============================================================")
	jsonOutput, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonOutput))
}
