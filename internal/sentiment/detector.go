package sentiment

import (
	"regexp"
	"strings"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityNone     Severity = "none"
)

// MentalState holds one flag per keyword family.
type MentalState struct {
	Stress     bool `json:"stress_indicators"`
	Depression bool `json:"depression_indicators"`
	Positive   bool `json:"positive_indicators"`
	SelfHarm   bool `json:"self_harm_indicators"`
}

// Any reports whether at least one flag is set.
func (m MentalState) Any() bool {
	return m.Stress || m.Depression || m.Positive || m.SelfHarm
}

type wordSet []*regexp.Regexp

func compileWords(words []string) wordSet {
	out := make(wordSet, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

func (ws wordSet) matchAny(text string) bool {
	for _, re := range ws {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	stressWords     = compileWords(StressKeywords)
	depressionWords = compileWords(DepressionKeywords)
	positiveWords   = compileWords(PositiveKeywords)
	selfHarmWords   = compileWords(SelfHarmKeywords)
)

// DetectMentalState flags each keyword family whose entries occur in text as
// whole tokens. text is expected to be normalized already.
func DetectMentalState(text string) MentalState {
	return MentalState{
		Stress:     stressWords.matchAny(text),
		Depression: depressionWords.matchAny(text),
		Positive:   positiveWords.matchAny(text),
		SelfHarm:   selfHarmWords.matchAny(text),
	}
}

// DetectCrisis scans the crisis phrase list, then the self-harm list, using
// plain containment. The first hit wins and is returned with CRITICAL severity.
func DetectCrisis(text string) (bool, Severity, string) {
	if text == "" {
		return false, SeverityNone, ""
	}
	for _, phrase := range CrisisPhrases {
		if strings.Contains(text, phrase) {
			return true, SeverityCritical, phrase
		}
	}
	for _, kw := range SelfHarmKeywords {
		if strings.Contains(text, kw) {
			return true, SeverityCritical, kw
		}
	}
	return false, SeverityNone, ""
}
