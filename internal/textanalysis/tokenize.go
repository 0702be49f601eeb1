// Package textanalysis scores free text with two heuristic pipelines: an
// AI-likelihood estimate built from word and sentence statistics, and a
// boilerplate/encyclopedic pattern scan used as a plagiarism hint.
//
// Both are deterministic functions of their input. The weights are
// placeholders and make no accuracy claim.
package textanalysis

import (
	"regexp"
	"strings"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+(\s+|$)`)
	wordPattern   = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
)

// splitSentences returns trimmed, non-empty sentences.
func splitSentences(text string) []string {
	parts := sentenceSplit.Split(strings.TrimSpace(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// words returns the lowercased words of s.
func words(s string) []string {
	raw := wordPattern.FindAllString(s, -1)
	for i, w := range raw {
		raw[i] = strings.ToLower(w)
	}
	return raw
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

// WordCount returns the number of words in text.
func WordCount(text string) int {
	return len(wordPattern.FindAllStringIndex(text, -1))
}
