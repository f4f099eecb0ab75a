package sentiment

import (
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Category string

const (
	VeryNegative     Category = "very_negative"
	Negative         Category = "negative"
	SlightlyNegative Category = "slightly_negative"
	Neutral          Category = "neutral"
	SlightlyPositive Category = "slightly_positive"
	Positive         Category = "positive"
	VeryPositive     Category = "very_positive"
)

const (
	ruleWeight        = 0.6
	statisticalWeight = 0.4
)

// Scorer returns a polarity in [-1, 1] for text.
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Score(text string) float64 { return f(text) }

type Result struct {
	RawText          string      `json:"raw_text"`
	Normalized       string      `json:"text_normalized"`
	RuleScore        float64     `json:"rule_based_score"`
	StatisticalScore float64     `json:"statistical_score"`
	Score            float64     `json:"combined_sentiment_score"`
	Category         Category    `json:"emotion_category"`
	Intensity        float64     `json:"emotion_intensity"`
	MentalState      MentalState `json:"mental_state_detected"`
	CrisisDetected   bool        `json:"crisis_detected"`
	CrisisSeverity   Severity    `json:"crisis_severity"`
	CrisisPhrase     string      `json:"crisis_phrase,omitempty"`
	Timestamp        time.Time   `json:"analysis_timestamp"`
}

// Comparison describes the change between a pre and a post message.
type Comparison struct {
	Pre      Result  `json:"pre_sentiment"`
	Post     Result  `json:"post_sentiment"`
	Change   float64 `json:"sentiment_change"`
	Improved bool    `json:"improved"`
	Degraded bool    `json:"degraded"`
	Stable   bool    `json:"stable"`
}

// Analyzer blends a rule-based and a statistical polarity scorer and runs the
// keyword detectors over the normalized text.
type Analyzer struct {
	rule        Scorer
	statistical Scorer
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewAnalyzer(rule, statistical Scorer, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Analyzer{
		rule:        rule,
		statistical: statistical,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// NewDefaultAnalyzer wires the VADER compound scorer and the naive Bayes scorer.
func NewDefaultAnalyzer(log logrus.FieldLogger) (*Analyzer, error) {
	bayes, err := NewBayesScorer()
	if err != nil {
		return nil, err
	}
	return NewAnalyzer(NewVaderScorer(), bayes, log), nil
}

// AnalyzeAny accepts an arbitrary value; anything that is not a string gets
// the neutral default.
func (a *Analyzer) AnalyzeAny(v any) Result {
	s, ok := v.(string)
	if !ok {
		a.log.Warn("invalid input for sentiment analysis")
		return a.defaultResult()
	}
	return a.Analyze(s)
}

func (a *Analyzer) Analyze(text string) Result {
	if text == "" {
		a.log.Warn("invalid input for sentiment analysis")
		return a.defaultResult()
	}

	normalized := strings.ToLower(strings.TrimSpace(text))

	crisis, severity, phrase := DetectCrisis(normalized)
	if crisis {
		a.log.WithFields(logrus.Fields{
			"phrase":   phrase,
			"severity": severity,
		}).Warn("crisis indicator detected")
	}

	rule := a.rule.Score(text)
	stat := a.statistical.Score(text)
	combined := Combine(rule, stat)

	return Result{
		RawText:          text,
		Normalized:       normalized,
		RuleScore:        rule,
		StatisticalScore: stat,
		Score:            combined,
		Category:         Categorize(combined),
		Intensity:        math.Abs(combined),
		MentalState:      DetectMentalState(normalized),
		CrisisDetected:   crisis,
		CrisisSeverity:   severity,
		CrisisPhrase:     phrase,
		Timestamp:        a.now(),
	}
}

// Compare analyzes both texts and reports the change using a ±0.1 band.
func (a *Analyzer) Compare(pre, post string) Comparison {
	before := a.Analyze(pre)
	after := a.Analyze(post)
	change := after.Score - before.Score
	return Comparison{
		Pre:      before,
		Post:     after,
		Change:   change,
		Improved: change > 0.1,
		Degraded: change < -0.1,
		Stable:   change >= -0.1 && change <= 0.1,
	}
}

func (a *Analyzer) defaultResult() Result {
	return Result{
		Category:       Neutral,
		CrisisSeverity: SeverityNone,
		Timestamp:      a.now(),
	}
}

// Combine weights the two scores 60/40 and clamps the result to [-1, 1].
// NaN inputs are treated as 0.
func Combine(rule, statistical float64) float64 {
	if math.IsNaN(rule) {
		rule = 0
	}
	if math.IsNaN(statistical) {
		statistical = 0
	}
	combined := rule*ruleWeight + statistical*statisticalWeight
	return math.Max(-1, math.Min(1, combined))
}

// Categorize maps a combined score onto the seven emotion bins. Upper bounds
// are inclusive.
func Categorize(score float64) Category {
	switch {
	case score <= -0.75:
		return VeryNegative
	case score <= -0.25:
		return Negative
	case score <= -0.05:
		return SlightlyNegative
	case score <= 0.05:
		return Neutral
	case score <= 0.25:
		return SlightlyPositive
	case score <= 0.75:
		return Positive
	default:
		return VeryPositive
	}
}
