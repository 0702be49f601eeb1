package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	if got := parseOrigins(""); got != nil {
		t.Fatalf("empty input: want nil, got %v", got)
	}

	got := parseOrigins(" https://doer.example.com, ,https://supervisor.example.com ")
	want := []string{"https://doer.example.com", "https://supervisor.example.com"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("origin %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLoadQuizDefaults(t *testing.T) {
	t.Setenv("QUIZ_PASSING_THRESHOLD", "")
	t.Setenv("QUIZ_MAX_ATTEMPTS", "")
	t.Setenv("QUIZ_ATTEMPT_WINDOW_MINUTES", "")

	cfg := Load()
	if cfg.QuizPassingThreshold != 80 {
		t.Errorf("threshold: want 80, got %v", cfg.QuizPassingThreshold)
	}
	if cfg.QuizMaxAttempts != 3 {
		t.Errorf("max attempts: want 3, got %d", cfg.QuizMaxAttempts)
	}
	if cfg.QuizAttemptWindow != time.Hour {
		t.Errorf("window: want 1h, got %v", cfg.QuizAttemptWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QUIZ_PASSING_THRESHOLD", "75.5")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("MAX_DB_CONNS", "not-a-number")

	cfg := Load()
	if cfg.QuizPassingThreshold != 75.5 {
		t.Errorf("threshold: want 75.5, got %v", cfg.QuizPassingThreshold)
	}
	if !cfg.StorageUseSSL {
		t.Error("want StorageUseSSL true")
	}
	if cfg.MaxDBConns != 16 {
		t.Errorf("invalid int should fall back to 16, got %d", cfg.MaxDBConns)
	}
}
