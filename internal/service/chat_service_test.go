package service

import "testing"

func TestClampHistoryLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 50},
		{-3, 50},
		{20, 20},
		{1000, 200},
	}
	for _, tt := range tests {
		if got := ClampHistoryLimit(tt.in); got != tt.want {
			t.Errorf("ClampHistoryLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("got %q", got)
	}
}
