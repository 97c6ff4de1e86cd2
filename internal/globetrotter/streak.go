package globetrotter

import "time"

// NextStreak computes the streak value after a play on today, given the
// date of the previous play and the streak at that point.
//
// Rules:
//   - first-ever play → 1
//   - previous play on the previous calendar day → current + 1
//   - another play on the same calendar day → current (unchanged)
//   - any longer gap → 1
//
// Consecutive means calendar-day adjacency, not a rolling 24 h window:
// playing at 23:59 and again at 00:01 extends the streak.
func NextStreak(lastPlayedAt *time.Time, current int, today time.Time) int {
	if lastPlayedAt == nil {
		return 1
	}

	last := dateOf(*lastPlayedAt)
	yesterday := dateOf(today.AddDate(0, 0, -1))

	switch {
	case last.Equal(yesterday):
		return current + 1
	case last.Equal(dateOf(today)):
		if current < 1 {
			return 1
		}
		return current
	default:
		return 1
	}
}

// dateOf truncates t to midnight UTC. Both inputs must land in the
// same location before comparison: the store hands back UTC timestamps
// while the engine clock runs in the host zone, and comparing midnights
// from two different zones would never match.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
