package textanalysis

import (
	"regexp"
	"strings"
)

// Verdict classifies a text or segment.
type Verdict string

const (
	VerdictHuman     Verdict = "human"
	VerdictAI        Verdict = "ai_generated"
	VerdictMixed     Verdict = "mixed"
	VerdictUncertain Verdict = "uncertain"
)

// Confidence is derived from the distance to the nearest verdict threshold.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	aiThreshold    = 70.0
	humanThreshold = 30.0
	// minWords is the shortest text the statistics mean anything for.
	minWords = 30
	// minSegmentWords skips fragments when classifying sentences.
	minSegmentWords = 5
)

var transitionWords = map[string]struct{}{
	"additionally": {}, "furthermore": {}, "moreover": {}, "however": {}, "therefore": {},
	"consequently": {}, "nevertheless": {}, "nonetheless": {}, "thus": {}, "hence": {},
	"overall": {}, "ultimately": {}, "similarly": {}, "conversely": {}, "accordingly": {},
	"notably": {}, "importantly": {}, "subsequently": {}, "indeed": {}, "meanwhile": {},
}

var formalWords = map[string]struct{}{
	"utilize": {}, "facilitate": {}, "comprehensive": {}, "significant": {}, "significantly": {},
	"demonstrate": {}, "crucial": {}, "essential": {}, "paramount": {}, "robust": {},
	"leverage": {}, "enhance": {}, "optimal": {}, "pivotal": {}, "multifaceted": {},
	"delve": {}, "intricate": {}, "landscape": {}, "realm": {}, "foster": {},
	"furthermore": {}, "moreover": {}, "numerous": {}, "various": {}, "ensure": {},
}

var informalWords = map[string]struct{}{
	"gonna": {}, "wanna": {}, "kinda": {}, "stuff": {}, "things": {}, "pretty": {},
	"really": {}, "basically": {}, "totally": {}, "okay": {}, "ok": {}, "yeah": {},
	"guess": {}, "lot": {}, "awesome": {}, "cool": {}, "honestly": {}, "anyway": {},
}

var passiveVoice = regexp.MustCompile(`(?i)\b(am|is|are|was|were|be|been|being)\s+(\w+ed|\w+en)\b`)

// Features are the statistics the AI score is built from.
type Features struct {
	WordCount              int     `json:"word_count"`
	SentenceCount          int     `json:"sentence_count"`
	SentenceLengthVariance float64 `json:"sentence_length_variance"`
	TransitionWordRate     float64 `json:"transition_word_rate"`
	RepeatedTrigrams       int     `json:"repeated_trigrams"`
	PassiveVoiceRate       float64 `json:"passive_voice_rate"`
	FormalWordRatio        float64 `json:"formal_word_ratio"`
	UniqueWordRatio        float64 `json:"unique_word_ratio"`
	StarterDiversity       float64 `json:"starter_diversity"`
	Contractions           int     `json:"contractions"`
}

// Segment is one classified sentence.
type Segment struct {
	Index         int     `json:"index"`
	Text          string  `json:"text"`
	AIProbability float64 `json:"ai_probability"`
	Verdict       Verdict `json:"verdict"`
}

// AIReport is the result of DetectAI.
type AIReport struct {
	AIProbability    float64    `json:"ai_probability"`
	HumanProbability float64    `json:"human_probability"`
	MixedProbability float64    `json:"mixed_probability"`
	Verdict          Verdict    `json:"verdict"`
	Confidence       Confidence `json:"confidence"`
	Features         Features   `json:"features"`
	Segments         []Segment  `json:"segments"`
}

// DetectAI estimates how likely text is machine-generated.
func DetectAI(text string) AIReport {
	sentences := splitSentences(text)
	f := extractFeatures(sentences)

	report := AIReport{Features: f, Segments: []Segment{}}
	if f.WordCount < minWords || f.SentenceCount < 2 {
		report.AIProbability = 50
		report.HumanProbability = 50
		report.MixedProbability = 50
		report.Verdict = VerdictUncertain
		report.Confidence = ConfidenceLow
		return report
	}

	ai := clamp(scoreFeatures(f), 0, 100)
	report.AIProbability = ai
	report.HumanProbability = 100 - ai
	report.MixedProbability = min(ai, 100-ai)
	report.Verdict = classify(ai)
	report.Confidence = confidenceFor(ai, report.Verdict)

	for i, s := range sentences {
		if len(words(s)) < minSegmentWords {
			continue
		}
		p := clamp(scoreSentence(s), 0, 100)
		report.Segments = append(report.Segments, Segment{
			Index:         i,
			Text:          s,
			AIProbability: p,
			Verdict:       classify(p),
		})
	}
	return report
}

func extractFeatures(sentences []string) Features {
	f := Features{SentenceCount: len(sentences)}
	if len(sentences) == 0 {
		return f
	}

	var all []string
	lengths := make([]float64, 0, len(sentences))
	starters := make(map[string]struct{}, len(sentences))
	transitions, passives := 0, 0

	for _, s := range sentences {
		ws := words(s)
		lengths = append(lengths, float64(len(ws)))
		all = append(all, ws...)
		if len(ws) > 0 {
			starters[ws[0]] = struct{}{}
			if _, ok := transitionWords[ws[0]]; ok {
				transitions++
			}
		}
		passives += len(passiveVoice.FindAllString(s, -1))
		f.Contractions += strings.Count(s, "'")
	}

	f.WordCount = len(all)
	f.SentenceLengthVariance = variance(lengths)
	f.TransitionWordRate = float64(transitions) / float64(len(sentences))
	f.PassiveVoiceRate = float64(passives) / float64(len(sentences))
	f.StarterDiversity = float64(len(starters)) / float64(len(sentences))
	f.RepeatedTrigrams = repeatedTrigrams(all)

	formal, informal := 0, 0
	unique := make(map[string]struct{}, len(all))
	for _, w := range all {
		unique[w] = struct{}{}
		if _, ok := formalWords[w]; ok {
			formal++
		}
		if _, ok := informalWords[w]; ok {
			informal++
		}
	}
	if formal+informal > 0 {
		f.FormalWordRatio = float64(formal) / float64(formal+informal)
	}
	if len(all) > 0 {
		f.UniqueWordRatio = float64(len(unique)) / float64(len(all))
	}
	return f
}

// scoreFeatures maps each feature through fixed thresholds into points.
func scoreFeatures(f Features) float64 {
	score := 20.0

	switch {
	case f.SentenceLengthVariance < 20:
		score += 20
	case f.SentenceLengthVariance < 40:
		score += 10
	case f.SentenceLengthVariance > 100:
		score -= 10
	}

	switch {
	case f.TransitionWordRate > 0.3:
		score += 15
	case f.TransitionWordRate > 0.15:
		score += 8
	}

	switch {
	case f.RepeatedTrigrams >= 3:
		score += 10
	case f.RepeatedTrigrams >= 1:
		score += 5
	}

	switch {
	case f.PassiveVoiceRate > 0.3:
		score += 10
	case f.PassiveVoiceRate > 0.15:
		score += 5
	}

	switch {
	case f.FormalWordRatio > 0.7:
		score += 15
	case f.FormalWordRatio > 0.4:
		score += 8
	}
	if f.Contractions > 0 {
		score -= 10
	}

	switch {
	case f.UniqueWordRatio < 0.45:
		score += 10
	case f.UniqueWordRatio > 0.7:
		score -= 5
	}

	switch {
	case f.StarterDiversity < 0.5:
		score += 15
	case f.StarterDiversity < 0.7:
		score += 7
	}

	return score
}

func scoreSentence(s string) float64 {
	ws := words(s)
	score := 30.0

	if _, ok := transitionWords[ws[0]]; ok {
		score += 20
	}
	if passiveVoice.MatchString(s) {
		score += 15
	}
	formal := 0
	for _, w := range ws {
		if _, ok := formalWords[w]; ok {
			formal++
		}
		if _, ok := informalWords[w]; ok {
			score -= 10
		}
	}
	score += min(20, float64(formal)*5)
	if strings.Contains(s, "'") {
		score -= 15
	}
	if n := len(ws); n >= 15 && n <= 30 {
		score += 10
	}
	return score
}

func classify(ai float64) Verdict {
	switch {
	case ai >= aiThreshold:
		return VerdictAI
	case ai <= humanThreshold:
		return VerdictHuman
	default:
		return VerdictMixed
	}
}

func confidenceFor(ai float64, v Verdict) Confidence {
	var distance float64
	switch v {
	case VerdictAI:
		distance = ai - aiThreshold
	case VerdictHuman:
		distance = humanThreshold - ai
	default:
		distance = min(ai-humanThreshold, aiThreshold-ai)
	}

	switch {
	case distance >= 20:
		return ConfidenceHigh
	case distance >= 10:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return sq / float64(len(xs))
}

// repeatedTrigrams counts distinct word trigrams that occur more than once.
func repeatedTrigrams(ws []string) int {
	if len(ws) < 3 {
		return 0
	}
	seen := make(map[string]int, len(ws))
	for i := 0; i+2 < len(ws); i++ {
		seen[ws[i]+" "+ws[i+1]+" "+ws[i+2]]++
	}
	n := 0
	for _, c := range seen {
		if c > 1 {
			n++
		}
	}
	return n
}
