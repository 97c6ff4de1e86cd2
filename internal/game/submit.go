package game

import (
	"context"

	"github.com/ayusharma-ctrl/GIYC/internal/globetrotter"
)

// SubmitOutcome is what a finished submission reports back to the
// client: the post-update state and any achievements unlocked by it.
type SubmitOutcome struct {
	State           globetrotter.ProgressionState
	NewAchievements []int
}

// SubmitResult is the single entry point for an answered or timed-out
// round (a time-up counts as an incorrect answer).
//
// Step 1 records the result in the ledger; its failure aborts the whole
// submission. Steps 2–3 (achievement evaluation, unlock persistence,
// notifications, game log) are bonus work: their failures are logged
// and swallowed so they can never block or roll back a recorded score.
func (e *Engine) SubmitResult(ctx context.Context, userID string, destinationID int64, isCorrect bool) (SubmitOutcome, error) {
	state, err := e.RecordResult(ctx, userID, isCorrect)
	if err != nil {
		return SubmitOutcome{}, err
	}
	outcome := SubmitOutcome{State: state}

	if err := e.store.RecordGame(ctx, userID, destinationID, isCorrect); err != nil {
		e.logger.Error("recording game log", "user_id", userID, "error", err)
	}

	outcome.NewAchievements = e.unlockAchievements(ctx, userID, state)
	return outcome, nil
}

// unlockAchievements evaluates the rule set against state, persists any
// new unlocks, and emits one notification per unlock. Every failure is
// reported via the returned (possibly shorter) id list and the log,
// never as an error.
func (e *Engine) unlockAchievements(ctx context.Context, userID string, state globetrotter.ProgressionState) []int {
	already, err := e.store.UnlockedAchievements(ctx, userID)
	if err != nil {
		e.logger.Error("reading unlocked achievements", "user_id", userID, "error", err)
		return nil
	}

	inviteCount, err := e.store.CountSentInvites(ctx, userID)
	if err != nil {
		e.logger.Error("counting invites", "user_id", userID, "error", err)
		return nil
	}

	var unlocked []int
	for _, id := range globetrotter.NewUnlocks(state, inviteCount, already) {
		inserted, err := e.store.InsertUnlock(ctx, userID, id, e.now())
		if err != nil {
			e.logger.Error("recording unlock", "user_id", userID, "achievement_id", id, "error", err)
			continue
		}
		if !inserted {
			// A concurrent submission won the race. Nothing to notify.
			continue
		}
		unlocked = append(unlocked, id)

		if _, err := e.Emit(ctx, userID, unlockMessage, unlockIcon); err != nil {
			e.logger.Error("emitting unlock notification", "user_id", userID, "achievement_id", id, "error", err)
		}
	}
	return unlocked
}
