package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

//go:embed destinations.json
var destinationsJSON []byte

// catalogAchievements is the fixed achievement catalog. Ids line up
// with the rule set in the globetrotter package.
var catalogAchievements = []globetrotter.Achievement{
	{ID: 1, Title: "First Steps", Description: "Play your first round", Icon: "🧭"},
	{ID: 2, Title: "First Win", Description: "Answer a round correctly", Icon: "🎯"},
	{ID: 3, Title: "Week Wanderer", Description: "Reach a 7-day streak", Icon: "🔥"},
	{ID: 4, Title: "Fortnight Nomad", Description: "Reach a 15-day streak", Icon: "🌋"},
	{ID: 5, Title: "Globetrotter", Description: "15 correct answers", Icon: "🌍"},
	{ID: 6, Title: "Sharp Eye", Description: "80% accuracy over more than 20 rounds", Icon: "🦅"},
	{ID: 7, Title: "World Expert", Description: "50 correct answers", Icon: "🏅"},
	{ID: 8, Title: "Party Starter", Description: "Send 5 invites to friends", Icon: "🎉"},
}

// Seed inserts the achievement catalog and, when the destination pool
// is empty, the embedded starter destinations. Idempotent.
func Seed(ctx context.Context, logger *slog.Logger, store Store) error {
	for _, a := range catalogAchievements {
		if err := store.InsertAchievement(ctx, a); err != nil {
			return fmt.Errorf("seeding achievement %d: %w", a.ID, err)
		}
	}

	count, err := store.CountDestinations(ctx)
	if err != nil {
		return fmt.Errorf("counting destinations: %w", err)
	}
	if count > 0 {
		return nil
	}

	var destinations []struct {
		City     string   `json:"city"`
		Country  string   `json:"country"`
		Clues    []string `json:"clues"`
		FunFacts []string `json:"fun_facts"`
		Trivia   []string `json:"trivia"`
	}
	if err := json.Unmarshal(destinationsJSON, &destinations); err != nil {
		return fmt.Errorf("parsing embedded destinations: %w", err)
	}

	for _, d := range destinations {
		err := store.InsertDestination(ctx, globetrotter.Destination{
			City:     d.City,
			Country:  d.Country,
			Clues:    d.Clues,
			FunFacts: d.FunFacts,
			Trivia:   d.Trivia,
		})
		if err != nil {
			return fmt.Errorf("seeding destination %q: %w", d.City, err)
		}
	}

	logger.Info("seeded starter destinations", "count", len(destinations))
	return nil
}
