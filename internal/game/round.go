package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

const optionCount = 4

// GenerateRound picks a random correct destination plus three wrong
// cities and shuffles the four options. Read-only; the round is never
// persisted. Returns ErrInsufficientData when the catalog holds fewer
// than four distinct cities.
func (e *Engine) GenerateRound(ctx context.Context) (globetrotter.Round, error) {
	dest, err := e.store.RandomDestination(ctx)
	if err != nil {
		return globetrotter.Round{}, fmt.Errorf("picking destination: %w", err)
	}

	wrong, err := e.store.RandomCitiesExcluding(ctx, dest.City, optionCount-1)
	if err != nil {
		return globetrotter.Round{}, fmt.Errorf("picking wrong options: %w", err)
	}
	if len(wrong) < optionCount-1 {
		return globetrotter.Round{}, ErrInsufficientData
	}

	options := append([]string{dest.City}, wrong...)
	// Uniform Fisher–Yates. The option position must not leak which
	// answer is correct.
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return globetrotter.Round{
		Destination:   dest,
		Options:       options,
		CorrectAnswer: dest.City,
	}, nil
}
