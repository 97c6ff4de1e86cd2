package globetrotter

import (
	"slices"
	"testing"
)

func TestNewUnlocksFreshUserFirstWin(t *testing.T) {
	state := ProgressionState{TotalPlayed: 1, TotalCorrect: 1, CurrentStreak: 1, LongestStreak: 1}

	got := NewUnlocks(state, 0, nil)
	want := []int{1, 2}
	if !slices.Equal(got, want) {
		t.Errorf("expected unlocks %v, got %v", want, got)
	}
}

func TestNewUnlocksIdempotent(t *testing.T) {
	state := ProgressionState{TotalPlayed: 1, TotalCorrect: 1, CurrentStreak: 1, LongestStreak: 1}

	first := NewUnlocks(state, 0, nil)
	already := make(map[int]bool)
	for _, id := range first {
		already[id] = true
	}

	if second := NewUnlocks(state, 0, already); len(second) != 0 {
		t.Errorf("expected no unlocks on re-evaluation, got %v", second)
	}
}

func TestNewUnlocksAccuracyBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		state   ProgressionState
		unlocks bool
	}{
		{"exactly 20 played", ProgressionState{TotalPlayed: 20, TotalCorrect: 20}, false},
		{"21 played at 100%", ProgressionState{TotalPlayed: 21, TotalCorrect: 21}, true},
		{"21 played just under 80%", ProgressionState{TotalPlayed: 21, TotalCorrect: 16}, false},
		{"exactly 80%", ProgressionState{TotalPlayed: 25, TotalCorrect: 20}, true},
		{"just below 80%", ProgressionState{TotalPlayed: 25, TotalCorrect: 19}, false},
	}

	// Suppress the count-based rules so only rule 6 is in play.
	already := map[int]bool{1: true, 2: true, 5: true, 7: true}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewUnlocks(tt.state, 0, already)
			if tt.unlocks != slices.Contains(got, 6) {
				t.Errorf("state %+v: rule 6 unlocked=%v, want %v", tt.state, !tt.unlocks, tt.unlocks)
			}
		})
	}
}

func TestNewUnlocksStreakAndCorrectMilestones(t *testing.T) {
	state := ProgressionState{TotalPlayed: 60, TotalCorrect: 50, LongestStreak: 15}
	already := map[int]bool{1: true, 2: true, 5: true}

	got := NewUnlocks(state, 0, already)
	want := []int{3, 4, 7} // accuracy 50/60 < 0.80, so rule 6 stays locked
	if !slices.Equal(got, want) {
		t.Errorf("expected unlocks %v, got %v", want, got)
	}
}

func TestNewUnlocksInviteRule(t *testing.T) {
	if got := NewUnlocks(ProgressionState{}, 4, nil); slices.Contains(got, 8) {
		t.Error("rule 8 unlocked at 4 invites")
	}
	if got := NewUnlocks(ProgressionState{}, 5, nil); !slices.Contains(got, 8) {
		t.Error("rule 8 not unlocked at 5 invites")
	}
}

func TestRulesAscendingIDs(t *testing.T) {
	for i := 1; i < len(Rules); i++ {
		if Rules[i].ID <= Rules[i-1].ID {
			t.Fatalf("rule ids out of order at index %d", i)
		}
	}
}
