package globetrotter

// AchievementRule pairs a stable achievement id with a pure predicate
// over a user's cumulative state. The rule set is fixed for the process
// lifetime; changing a predicate means introducing a new id.
type AchievementRule struct {
	ID        int
	Condition func(s ProgressionState, inviteCount int) bool
}

// Rules is the fixed rule set, in ascending id order. Ids match the
// seeded achievements catalog.
var Rules = []AchievementRule{
	{ID: 1, Condition: func(s ProgressionState, _ int) bool { return s.TotalPlayed >= 1 }},
	{ID: 2, Condition: func(s ProgressionState, _ int) bool { return s.TotalCorrect >= 1 }},
	{ID: 3, Condition: func(s ProgressionState, _ int) bool { return s.LongestStreak >= 7 }},
	{ID: 4, Condition: func(s ProgressionState, _ int) bool { return s.LongestStreak >= 15 }},
	{ID: 5, Condition: func(s ProgressionState, _ int) bool { return s.TotalCorrect >= 15 }},
	{ID: 6, Condition: func(s ProgressionState, _ int) bool {
		return s.TotalPlayed > 20 && s.Accuracy() >= 0.80
	}},
	{ID: 7, Condition: func(s ProgressionState, _ int) bool { return s.TotalCorrect >= 50 }},
	{ID: 8, Condition: func(_ ProgressionState, invites int) bool { return invites >= 5 }},
}

// NewUnlocks evaluates every rule not in alreadyUnlocked against the
// given state and returns the newly satisfied ids in ascending order.
// Pure: it does not record anything; persisting the unlock (and
// enforcing at-most-once under races) is the caller's job.
func NewUnlocks(state ProgressionState, inviteCount int, alreadyUnlocked map[int]bool) []int {
	var unlocked []int
	for _, rule := range Rules {
		if alreadyUnlocked[rule.ID] {
			continue
		}
		if rule.Condition(state, inviteCount) {
			unlocked = append(unlocked, rule.ID)
		}
	}
	return unlocked
}
