package activation

import (
	"testing"
	"time"
)

func TestCheckWindow(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	ago := func(m int) time.Time { return now.Add(-time.Duration(m) * time.Minute) }

	tests := []struct {
		name        string
		attempts    []time.Time
		wantLimited bool
		wantRetry   int
		wantUsed    int
	}{
		{"no attempts", nil, false, 0, 0},
		{"two recent", []time.Time{ago(5), ago(10)}, false, 0, 2},
		{"three recent", []time.Time{ago(5), ago(10), ago(20)}, true, 40, 3},
		{"old attempts fall out", []time.Time{ago(61), ago(90), ago(5)}, false, 0, 1},
		{"oldest about to expire", []time.Time{ago(59), ago(30), ago(1)}, true, 1, 3},
		{"retry floors to whole minutes", []time.Time{now.Add(-20*time.Minute - 30*time.Second), ago(2), ago(1)}, true, 39, 3},
		{"more than limit uses the attempt that frees a slot", []time.Time{ago(50), ago(40), ago(30), ago(10)}, true, 20, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckWindow(tt.attempts, now, 3, time.Hour)
			if got.RateLimited != tt.wantLimited {
				t.Fatalf("limited: got %v, want %v", got.RateLimited, tt.wantLimited)
			}
			if got.RetryAfterMinutes != tt.wantRetry {
				t.Errorf("retry: got %d, want %d", got.RetryAfterMinutes, tt.wantRetry)
			}
			if got.Used != tt.wantUsed {
				t.Errorf("used: got %d, want %d", got.Used, tt.wantUsed)
			}
		})
	}
}

func TestCheckWindow_FourthAttemptRejected(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	var attempts []time.Time

	for i := 0; i < 3; i++ {
		now := start.Add(time.Duration(i) * 10 * time.Minute)
		if d := CheckWindow(attempts, now, 3, time.Hour); d.RateLimited {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		attempts = append(attempts, now)
	}

	d := CheckWindow(attempts, start.Add(25*time.Minute), 3, time.Hour)
	if !d.RateLimited || d.RetryAfterMinutes <= 0 {
		t.Fatalf("fourth attempt: got %+v", d)
	}
}
