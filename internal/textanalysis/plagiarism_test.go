package textanalysis

import (
	"strings"
	"testing"
)

func TestCheckPlagiarism_CleanText(t *testing.T) {
	r := CheckPlagiarism("My grandmother taught me to bake bread on Sunday mornings. The kitchen smelled of yeast.")
	if r.Score != 0 || len(r.Matches) != 0 {
		t.Fatalf("want no matches, got score %v and %d matches", r.Score, len(r.Matches))
	}
	if r.TotalWords == 0 {
		t.Error("total words should be counted")
	}
}

func TestCheckPlagiarism_CommonPhrase(t *testing.T) {
	r := CheckPlagiarism("In conclusion, the data plays a crucial role in planning.")
	if len(r.Matches) != 2 {
		t.Fatalf("want 2 matches, got %+v", r.Matches)
	}
	for _, m := range r.Matches {
		if m.Kind != MatchCommonPhrase {
			t.Errorf("unexpected kind %s", m.Kind)
		}
	}
	// "in conclusion" (2) + "plays a crucial role in" (5) over 10 words.
	if r.MatchedWords != 7 || r.Score != 70 {
		t.Errorf("want 7 words / 70%%, got %d / %v", r.MatchedWords, r.Score)
	}
}

func TestCheckPlagiarism_Encyclopedic(t *testing.T) {
	r := CheckPlagiarism("The company was founded in 1998 by two students. It has a population of 2,000 employees worldwide [3].")
	if len(r.Matches) == 0 {
		t.Fatal("want encyclopedic matches")
	}
	if r.Matches[0].Source != "citation marker" {
		t.Errorf("strongest match should rank first, got %s", r.Matches[0].Source)
	}
	for i := 1; i < len(r.Matches); i++ {
		if r.Matches[i].Similarity > r.Matches[i-1].Similarity {
			t.Fatal("matches must be sorted by similarity descending")
		}
	}
}

func TestCheckPlagiarism_CapsMatchesAndScore(t *testing.T) {
	text := strings.Repeat("In conclusion, in recent years a wide range of studies exist. ", 8)
	r := CheckPlagiarism(text)
	if len(r.Matches) != maxMatches {
		t.Errorf("want %d matches, got %d", maxMatches, len(r.Matches))
	}
	if r.Score < 0 || r.Score > 100 {
		t.Errorf("score out of range: %v", r.Score)
	}
}

func TestCheckPlagiarism_Empty(t *testing.T) {
	r := CheckPlagiarism("")
	if r.Score != 0 || r.TotalWords != 0 || r.Matches == nil {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("It's a test, isn't it? Yes."); got != 6 {
		t.Fatalf("WordCount = %d, want 6", got)
	}
	if got := WordCount("  "); got != 0 {
		t.Fatalf("WordCount(blank) = %d", got)
	}
}

func TestCheckPlagiarism_BiographicalLeadNeedsProperNoun(t *testing.T) {
	r := CheckPlagiarism("Ada Lovelace (born 10 December 1815) wrote the first published algorithm.")
	found := false
	for _, m := range r.Matches {
		if m.Source == "biographical lead" {
			found = true
		}
	}
	if !found {
		t.Fatalf("want a biographical lead match, got %+v", r.Matches)
	}

	r = CheckPlagiarism("my old dog (born 3 march 2015) likes long walks every day.")
	for _, m := range r.Matches {
		if m.Source == "biographical lead" {
			t.Fatalf("lowercase text matched the biographical lead: %+v", m)
		}
	}
}
