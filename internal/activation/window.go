package activation

import (
	"slices"
	"time"
)

// WindowDecision is the outcome of the quiz attempt rate check.
type WindowDecision struct {
	RateLimited       bool `json:"rate_limited"`
	RetryAfterMinutes int  `json:"retry_after_minutes,omitempty"`
	Used              int  `json:"used"`
}

// CheckWindow counts attempts newer than now-window. At the limit, the retry
// time is when enough of the oldest counted attempts age out to leave one
// slot free, floored to whole minutes with a minimum of one.
func CheckWindow(attempts []time.Time, now time.Time, limit int, window time.Duration) WindowDecision {
	cutoff := now.Add(-window)

	inWindow := make([]time.Time, 0, len(attempts))
	for _, at := range attempts {
		if at.After(cutoff) {
			inWindow = append(inWindow, at)
		}
	}

	d := WindowDecision{Used: len(inWindow)}
	if len(inWindow) < limit {
		return d
	}

	slices.SortFunc(inWindow, func(a, b time.Time) int { return a.Compare(b) })

	// With exactly `limit` attempts this is the oldest one.
	blocking := inWindow[len(inWindow)-limit]
	wait := blocking.Add(window).Sub(now)

	d.RateLimited = true
	d.RetryAfterMinutes = max(1, int(wait/time.Minute))
	return d
}
