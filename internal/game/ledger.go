package game

import (
	"context"
	"fmt"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

// RecordResult applies one answered (or timed-out) round to the user's
// progression state and returns the post-update state.
//
// The read-modify-write is serialized per user: totalPlayed always
// advances by exactly one and the streak is computed from the state
// this call observed. No other code path mutates these fields.
func (e *Engine) RecordResult(ctx context.Context, userID string, isCorrect bool) (globetrotter.ProgressionState, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	state, err := e.store.ProgressionState(ctx, userID)
	if err != nil {
		return globetrotter.ProgressionState{}, fmt.Errorf("reading progression: %w", err)
	}

	today := e.now()
	streak := globetrotter.NextStreak(state.LastPlayedAt, state.CurrentStreak, today)

	state.TotalPlayed++
	if isCorrect {
		state.TotalCorrect++
	} else {
		state.TotalWrong++
	}
	state.CurrentStreak = streak
	state.LongestStreak = max(state.LongestStreak, streak)
	state.LastPlayedAt = &today

	if err := e.store.UpdateProgression(ctx, userID, state); err != nil {
		return globetrotter.ProgressionState{}, fmt.Errorf("writing progression: %w", err)
	}
	return state, nil
}
