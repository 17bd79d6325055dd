package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(apiURL, args)
	case "seed":
		seedCmd(apiURL, args)
	case "optimize":
		optimizeCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Team Simulator - Development tool for exercising the optimizer end to end

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Register a user, seed reference data, build a demo roster,
            save and share a team, then run a full optimization
  seed      Seed the reference collections only
  optimize  Run an optimization against an existing account's roster
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Full demo flow with a fresh account
  simulator full

  # Demo flow requiring a healer on the best team
  simulator full --healer

  # Seed reference data for manual testing
  simulator seed

  # Optimize an existing account's roster
  simulator optimize --user demo_12345 --password testpassword123`)
}

func fullCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	healer := fs.Bool("healer", false, "Require a healer on the optimized team")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== Team Simulator: Full Flow ===")
	fmt.Println()

	// 1. Register a demo user
	fmt.Print("Creating demo user... ")
	user, token, err := client.RegisterUser("Demo")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", user.Username)

	// 2. Seed reference collections
	fmt.Print("Seeding reference data... ")
	seeded, err := client.SeedReference(token)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%d champions, %d synergies, %d legacy pieces)\n",
		seeded.Champions, seeded.Synergies, seeded.LegacyPieces)

	// 3. Build the demo roster
	entries := demoRoster()
	fmt.Printf("Building roster with %d champions:\n", len(entries))
	for i, entry := range entries {
		added, err := client.AddRosterEntry(token, entry)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to add %s: %v\n", i+1, len(entries), entry.ChampionID, err)
			os.Exit(1)
		}
		fmt.Printf("  [%d/%d] %s (%s, score %.1f)\n",
			i+1, len(entries), entry.ChampionID, entry.StarTier, added.Entry.IndividualScore)
	}

	// 4. Evaluate and save a hand-picked team
	picked := []string{"superman", "batman", "wonder-woman", "flash", "zatanna"}
	fmt.Print("\nEvaluating hand-picked team... ")
	eval, err := client.EvaluateTeam(token, picked)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (total %.1f, comparison %.1f)\n", eval.TotalScore, eval.ComparisonScore)

	fmt.Print("Saving team... ")
	team, err := client.SaveTeam(token, "Hand Picked", picked)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (id: %s)\n", team.ID)

	fmt.Print("Sharing team... ")
	share, err := client.ShareTeam(token, team.ID)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (code: %s)\n", share.ShareCode)

	// 5. Run the optimizer
	fmt.Println()
	best := runOptimization(client, token, *healer)

	// Print summary
	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  OPTIMIZATION COMPLETE")
	fmt.Println("=========================================")
	fmt.Println()
	printTeam(best)
	fmt.Println()
	fmt.Printf("  Hand-picked team: %.1f\n", eval.TotalScore)
	fmt.Printf("  Optimized team:   %.1f\n", best.TotalScore)
	fmt.Printf("  Shared team URL:  %s/api/v1/share/%s\n", apiURL, share.ShareCode)
	fmt.Println()
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Print("Creating seed user... ")
	user, token, err := client.RegisterUser("Seeder")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: %s)\n", user.Username)

	fmt.Print("Seeding reference data... ")
	seeded, err := client.SeedReference(token)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK\n\n  Champions:     %d\n  Synergies:     %d\n  Legacy pieces: %d\n",
		seeded.Champions, seeded.Synergies, seeded.LegacyPieces)
}

func optimizeCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	username := fs.String("user", "", "Username of an existing account (required)")
	password := fs.String("password", "testpassword123", "Account password")
	healer := fs.Bool("healer", false, "Require a healer on the optimized team")
	fs.Parse(args)

	if *username == "" {
		fmt.Println("Error: --user is required")
		fmt.Println("\nUsage: simulator optimize --user demo_12345 [--password secret] [--healer]")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Logging in as %s... ", *username)
	_, token, err := client.Login(*username, *password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	best := runOptimization(client, token, *healer)

	fmt.Println()
	printTeam(best)
}

// runOptimization starts a search and polls the job until it finishes.
func runOptimization(client *APIClient, token string, requireHealer bool) *TeamEvaluation {
	fmt.Print("Starting optimization... ")
	job, err := client.StartOptimize(token, OptimizeRequest{RequireHealer: requireHealer})
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (job: %s)\n", job.ID)

	lastPercent := -1.0
	deadline := time.Now().Add(2 * time.Minute)
	for {
		if time.Now().After(deadline) {
			fmt.Println("Timed out waiting for the optimization to finish")
			os.Exit(1)
		}

		job, err = client.GetJob(token, job.ID)
		if err != nil {
			fmt.Printf("Failed to poll job: %v\n", err)
			os.Exit(1)
		}

		if job.Percent != lastPercent {
			fmt.Printf("  %3.0f%%  %s\n", job.Percent, job.StatusText)
			lastPercent = job.Percent
		}

		switch job.Status {
		case "complete":
			return job.Result
		case "failed", "cancelled":
			fmt.Printf("Optimization %s: %s\n", job.Status, job.Error)
			os.Exit(1)
		}

		time.Sleep(200 * time.Millisecond)
	}
}

func printTeam(eval *TeamEvaluation) {
	fmt.Println("  Best team:")
	for _, m := range eval.Members {
		fmt.Printf("    %-16s %-12s %8.1f\n", m.Name, m.Class, m.IndividualScore)
	}
	fmt.Println()
	for _, s := range eval.ActiveSynergies {
		fmt.Printf("    Synergy: %s x%d (+%.1f)\n", s.Name, s.MemberCount, s.CalculatedBonus+s.DepthBonus)
	}
	fmt.Printf("\n  Total score:      %.1f\n", eval.TotalScore)
	fmt.Printf("  Comparison score: %.1f\n", eval.ComparisonScore)
}

// demoRoster returns a spread of star tiers, gear and legacy pieces wide
// enough to make synergy and healer constraints interesting.
func demoRoster() []RosterEntryRequest {
	fullEpicGear := map[string]string{
		"head": "Epic", "arms": "Epic", "legs": "Epic", "chest": "Epic", "waist": "Epic",
	}
	return []RosterEntryRequest{
		{ChampionID: "superman", StarTier: "Gold 1-Star", ForceLevel: 3, Gear: fullEpicGear},
		{ChampionID: "batman", StarTier: "Purple 3-Star", ForceLevel: 2,
			Gear: map[string]string{"head": "Legendary", "chest": "Rare"}},
		{ChampionID: "wonder-woman", StarTier: "Purple 1-Star", ForceLevel: 1,
			LegacyPiece: &LegacyPieceRequest{ID: "lasso-of-truth", Rarity: "Legendary", StarTier: "White 2-Star"}},
		{ChampionID: "flash", StarTier: "Blue 4-Star"},
		{ChampionID: "aquaman", StarTier: "Blue 2-Star", ForceLevel: 1},
		{ChampionID: "cyborg", StarTier: "White 5-Star", ForceLevel: 1},
		{ChampionID: "zatanna", StarTier: "Blue 1-Star",
			Gear: map[string]string{"head": "Rare", "arms": "Rare"}},
		{ChampionID: "constantine", StarTier: "White 3-Star"},
		{ChampionID: "raven", StarTier: "Purple 2-Star", ForceLevel: 2,
			LegacyPiece: &LegacyPieceRequest{ID: "helmet-of-fate", Rarity: "Mythic", StarTier: "Blue 1-Star"}},
		{ChampionID: "nightwing", StarTier: "Blue 3-Star"},
		{ChampionID: "batgirl", StarTier: "White 4-Star"},
		{ChampionID: "starfire", StarTier: "Blue 5-Star"},
		{ChampionID: "harley-quinn", StarTier: "Unlocked"},
	}
}
