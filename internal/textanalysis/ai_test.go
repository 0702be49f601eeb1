package textanalysis

import (
	"strings"
	"testing"
)

const formalText = `Furthermore, the framework is utilized to facilitate comprehensive outcomes across the landscape. ` +
	`Moreover, the results are demonstrated to be significant for various stakeholders in the realm. ` +
	`Additionally, the approach is designed to ensure robust and optimal performance in numerous settings. ` +
	`Furthermore, the framework is utilized to foster pivotal improvements for various stakeholders. ` +
	`Moreover, the process is structured to enhance essential capabilities in numerous settings.`

const casualText = `honestly i didn't think the trip would go this way. we got lost twice, which was kinda funny. ` +
	`my brother kept saying we'd be fine but yeah, nope. ` +
	`by the time we found the campsite it was pitch dark and everyone was starving and grumpy and just wanted to sleep somewhere warm. ` +
	`still, best weekend i've had all year!`

func TestDetectAI_ShortTextIsUncertain(t *testing.T) {
	r := DetectAI("Too short to judge.")
	if r.Verdict != VerdictUncertain {
		t.Fatalf("want uncertain, got %s", r.Verdict)
	}
	if r.Confidence != ConfidenceLow {
		t.Errorf("want low confidence, got %s", r.Confidence)
	}
}

func TestDetectAI_ProbabilitiesAreConsistent(t *testing.T) {
	for _, text := range []string{formalText, casualText} {
		r := DetectAI(text)
		if r.AIProbability < 0 || r.AIProbability > 100 {
			t.Fatalf("ai probability out of range: %v", r.AIProbability)
		}
		if r.HumanProbability != 100-r.AIProbability {
			t.Errorf("human %v should mirror ai %v", r.HumanProbability, r.AIProbability)
		}
		if r.MixedProbability != min(r.AIProbability, r.HumanProbability) {
			t.Errorf("mixed %v should be min of the two", r.MixedProbability)
		}
	}
}

func TestDetectAI_FormalScoresAboveCasual(t *testing.T) {
	formal := DetectAI(formalText)
	casual := DetectAI(casualText)

	if formal.AIProbability <= casual.AIProbability {
		t.Fatalf("formal %v should score above casual %v", formal.AIProbability, casual.AIProbability)
	}
	if formal.Verdict != VerdictAI {
		t.Errorf("formal text: want %s, got %s (%.1f)", VerdictAI, formal.Verdict, formal.AIProbability)
	}
	if casual.Verdict != VerdictHuman {
		t.Errorf("casual text: want %s, got %s (%.1f)", VerdictHuman, casual.Verdict, casual.AIProbability)
	}
}

func TestDetectAI_Deterministic(t *testing.T) {
	a := DetectAI(formalText)
	b := DetectAI(formalText)
	if a.AIProbability != b.AIProbability || a.Verdict != b.Verdict || len(a.Segments) != len(b.Segments) {
		t.Fatal("same input produced different reports")
	}
}

func TestDetectAI_SegmentsSkipFragments(t *testing.T) {
	text := strings.Repeat("The committee was informed about the revised budget plan today. ", 4) + "Ok then."
	r := DetectAI(text)
	for _, s := range r.Segments {
		if len(words(s.Text)) < minSegmentWords {
			t.Errorf("fragment %q should not be a segment", s.Text)
		}
	}
	if len(r.Segments) != 4 {
		t.Errorf("want 4 segments, got %d", len(r.Segments))
	}
}

func TestClassifyAndConfidence(t *testing.T) {
	tests := []struct {
		ai   float64
		want Verdict
		conf Confidence
	}{
		{95, VerdictAI, ConfidenceHigh},
		{70, VerdictAI, ConfidenceLow},
		{82, VerdictAI, ConfidenceMedium},
		{30, VerdictHuman, ConfidenceLow},
		{5, VerdictHuman, ConfidenceHigh},
		{50, VerdictMixed, ConfidenceHigh},
		{35, VerdictMixed, ConfidenceLow},
	}
	for _, tt := range tests {
		v := classify(tt.ai)
		if v != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.ai, v, tt.want)
		}
		if c := confidenceFor(tt.ai, v); c != tt.conf {
			t.Errorf("confidenceFor(%v) = %s, want %s", tt.ai, c, tt.conf)
		}
	}
}

func TestRepeatedTrigrams(t *testing.T) {
	ws := words("the cat sat on the mat and the cat sat on the rug")
	// "the cat sat", "cat sat on", "sat on the" repeat.
	if got := repeatedTrigrams(ws); got != 3 {
		t.Errorf("want 3, got %d", got)
	}
}
