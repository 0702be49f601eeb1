package textanalysis

import (
	"regexp"
	"sort"
	"strings"
)

// MatchKind tells which list produced a plagiarism match.
type MatchKind string

const (
	MatchCommonPhrase MatchKind = "common_phrase"
	MatchEncyclopedic MatchKind = "encyclopedic"
)

// maxMatches caps the ranked match list.
const maxMatches = 10

var commonPhrases = []string{
	"in today's world",
	"since the dawn of time",
	"it is widely believed that",
	"plays a crucial role in",
	"in conclusion",
	"on the other hand",
	"it is important to note that",
	"throughout history",
	"a wide range of",
	"in recent years",
	"the purpose of this study is",
	"the results of this study",
	"this essay will discuss",
	"there are many reasons why",
	"as a result of",
	"according to recent studies",
	"one of the most important",
	"has been the subject of",
}

type encyclopedicPattern struct {
	source     string
	re         *regexp.Regexp
	similarity float64
}

var encyclopedicPatterns = []encyclopedicPattern{
	{"biographical lead", regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)* \(born \d{1,2} \w+ \d{4}\)`), 85},
	{"lifespan lead", regexp.MustCompile(`(?i)\(\d{4}\s*[–-]\s*\d{4}\)\s+was an?\b`), 85},
	{"definition lead", regexp.MustCompile(`(?i)\bis an? [a-z]+ (?:[a-z]+ )?(?:located|situated|founded|established) in\b`), 75},
	{"founding statement", regexp.MustCompile(`(?i)\bwas (?:founded|established|formed) in \d{4}\b`), 70},
	{"population statement", regexp.MustCompile(`(?i)\bhas a population of (?:about |approximately |over )?[\d,.]+`), 70},
	{"citation marker", regexp.MustCompile(`\[\d+\]|\[citation needed\]`), 90},
	{"also known as", regexp.MustCompile(`(?i)\b(?:also known as|commonly referred to as)\b`), 60},
}

// Match is one suspicious span.
type Match struct {
	SentenceIndex int       `json:"sentence_index"`
	Text          string    `json:"text"`
	Source        string    `json:"source"`
	Kind          MatchKind `json:"kind"`
	MatchedWords  int       `json:"matched_words"`
	Similarity    float64   `json:"similarity"`
}

// PlagiarismReport is the result of CheckPlagiarism.
type PlagiarismReport struct {
	Score        float64 `json:"score"`
	TotalWords   int     `json:"total_words"`
	MatchedWords int     `json:"matched_words"`
	Matches      []Match `json:"matches"`
}

// CheckPlagiarism scans each sentence for boilerplate phrases and
// encyclopedia-style patterns. The score is the share of words covered by
// matches, clamped to [0, 100].
func CheckPlagiarism(text string) PlagiarismReport {
	sentences := splitSentences(text)
	report := PlagiarismReport{Matches: []Match{}}

	var matches []Match
	for i, s := range sentences {
		sentenceWords := len(words(s))
		report.TotalWords += sentenceWords
		if sentenceWords == 0 {
			continue
		}
		lower := strings.ToLower(s)

		for _, phrase := range commonPhrases {
			if !strings.Contains(lower, phrase) {
				continue
			}
			n := len(words(phrase))
			matches = append(matches, Match{
				SentenceIndex: i,
				Text:          s,
				Source:        phrase,
				Kind:          MatchCommonPhrase,
				MatchedWords:  n,
				Similarity:    clamp(float64(n)/float64(sentenceWords)*100, 0, 100),
			})
		}

		for _, p := range encyclopedicPatterns {
			if !p.re.MatchString(s) {
				continue
			}
			// The whole sentence is treated as lifted; weight by pattern strength.
			n := int(float64(sentenceWords) * p.similarity / 100)
			matches = append(matches, Match{
				SentenceIndex: i,
				Text:          s,
				Source:        p.source,
				Kind:          MatchEncyclopedic,
				MatchedWords:  max(1, n),
				Similarity:    p.similarity,
			})
		}
	}

	for _, m := range matches {
		report.MatchedWords += m.MatchedWords
	}
	if report.TotalWords > 0 {
		report.Score = clamp(float64(report.MatchedWords)/float64(report.TotalWords)*100, 0, 100)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > maxMatches {
		matches = matches[:maxMatches]
	}
	if matches != nil {
		report.Matches = matches
	}
	return report
}
