package crisis

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/yoockh/mindwell/internal/sentiment"
)

const (
	// Threshold is the minimum weighted severity that counts as a crisis.
	Threshold = 0.80

	negativeBoostBelow = -0.7
	negativeBoost      = 0.1
)

type Match struct {
	Phrase string  `json:"phrase"`
	Weight float64 `json:"weight"`
}

// Decision is the outcome of the weighted keyword rule.
type Decision struct {
	IsCrisis bool    `json:"is_crisis"`
	Severity float64 `json:"severity"`
	Matched  []Match `json:"matched_keywords"`
}

func (d Decision) Phrases() []string {
	out := make([]string, len(d.Matched))
	for i, m := range d.Matched {
		out[i] = m.Phrase
	}
	return out
}

type Handler struct {
	keywords  []Keyword
	threshold float64

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Handler)

func WithKeywords(k []Keyword) Option {
	return func(h *Handler) { h.keywords = k }
}

func WithThreshold(t float64) Option {
	return func(h *Handler) { h.threshold = t }
}

func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		keywords:  DefaultKeywords,
		threshold: Threshold,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Decide scans text for weighted keywords by containment. Severity is the
// highest matched weight, boosted by 0.1 (capped at 1) when the combined
// sentiment score is below -0.7.
func (h *Handler) Decide(text string, score float64) Decision {
	lower := strings.ToLower(text)
	var (
		matched  []Match
		severity float64
	)
	for _, k := range h.keywords {
		if k.Phrase == "" || !strings.Contains(lower, k.Phrase) {
			continue
		}
		matched = append(matched, Match{Phrase: k.Phrase, Weight: k.Weight})
		if k.Weight > severity {
			severity = k.Weight
		}
	}
	if score < negativeBoostBelow && len(matched) > 0 {
		severity += negativeBoost
		if severity > 1 {
			severity = 1
		}
	}
	return Decision{
		IsCrisis: severity >= h.threshold,
		Severity: severity,
		Matched:  matched,
	}
}

type Tier struct {
	Name      string `json:"name"`
	Indicator string `json:"indicator"`
	Urgency   string `json:"urgency"`
}

var (
	TierImmediate = Tier{Name: "immediate", Indicator: "🔴", Urgency: "🚨 IMMEDIATE SUPPORT NEEDED"}
	TierUrgent    = Tier{Name: "urgent", Indicator: "🟠", Urgency: "⚠️ URGENT SUPPORT RECOMMENDED"}
	TierAvailable = Tier{Name: "available", Indicator: "🟡", Urgency: "⚡ SUPPORT AVAILABLE"}
)

func TierFor(severity float64) Tier {
	switch {
	case severity >= 0.90:
		return TierImmediate
	case severity >= 0.85:
		return TierUrgent
	default:
		return TierAvailable
	}
}

const responseBody = `I'm genuinely concerned about what you've shared. You don't have to face this alone.

💙 PLEASE REACH OUT TO SOMEONE:
- Call 988 (Suicide & Crisis Lifeline)
- Text "HELLO" to 741741 (Crisis Text Line)
- Go to nearest emergency room
- Call 911 if in immediate danger

I'm here to listen and support you through this.`

// Response renders the fixed crisis message for the severity tier.
func (h *Handler) Response(severity float64) string {
	t := TierFor(severity)
	return fmt.Sprintf("%s %s\n\n%s", t.Indicator, t.Urgency, responseBody)
}

// Tip returns a random relaxation tip.
func (h *Handler) Tip() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return RelaxationTips[h.rnd.Intn(len(RelaxationTips))]
}

// Assessment combines the phrase rule from the sentiment detector and the
// weighted rule. The two rules use different vocabularies and thresholds and
// are kept separate; either one escalates.
type Assessment struct {
	Escalate     bool     `json:"escalate"`
	Severity     float64  `json:"severity"`
	PhraseRule   bool     `json:"phrase_rule"`
	WeightedRule bool     `json:"weighted_rule"`
	Keywords     []string `json:"keywords,omitempty"`
}

// Evaluate ORs the two rules. A critical phrase hit maps to severity 1.
func Evaluate(s sentiment.Result, d Decision) Assessment {
	a := Assessment{
		PhraseRule:   s.CrisisDetected,
		WeightedRule: d.IsCrisis,
		Severity:     d.Severity,
		Keywords:     d.Phrases(),
	}
	if s.CrisisDetected && s.CrisisSeverity == sentiment.SeverityCritical {
		a.Severity = 1
	}
	if s.CrisisPhrase != "" && !contains(a.Keywords, s.CrisisPhrase) {
		a.Keywords = append([]string{s.CrisisPhrase}, a.Keywords...)
	}
	a.Escalate = a.PhraseRule || a.WeightedRule
	return a
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
