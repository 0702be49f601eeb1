package service

import (
	"testing"

	"github.com/doerhub/doerhub-backend/internal/textanalysis"
)

func TestAnalyzeText(t *testing.T) {
	s := NewAnalysisService(nil)

	r := s.AnalyzeText("Too short.")
	if r.AI.Verdict != textanalysis.VerdictUncertain {
		t.Errorf("verdict = %s, want uncertain", r.AI.Verdict)
	}
	if r.WordCount != 2 {
		t.Errorf("word count = %d", r.WordCount)
	}
	if r.Plagiarism.Matches == nil {
		t.Error("matches should be an empty slice")
	}
}
