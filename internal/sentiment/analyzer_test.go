package sentiment

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func constScorer(v float64) Scorer {
	return ScorerFunc(func(string) float64 { return v })
}

func newTestAnalyzer(rule, stat float64) *Analyzer {
	a := NewAnalyzer(constScorer(rule), constScorer(stat), quietLogger())
	a.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return a
}

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Category
	}{
		{-1, VeryNegative},
		{-0.75, VeryNegative},
		{-0.7499, Negative},
		{-0.25, Negative},
		{-0.2499, SlightlyNegative},
		{-0.05, SlightlyNegative},
		{-0.0499, Neutral},
		{0, Neutral},
		{0.05, Neutral},
		{0.0501, SlightlyPositive},
		{0.25, SlightlyPositive},
		{0.2501, Positive},
		{0.75, Positive},
		{0.7501, VeryPositive},
		{1, VeryPositive},
	}
	for _, c := range cases {
		if got := Categorize(c.score); got != c.want {
			t.Fatalf("Categorize(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestCombineWeightsAndClamps(t *testing.T) {
	cases := []struct {
		rule, stat, want float64
	}{
		{0.5, 0.5, 0.5},
		{1, -1, 0.2},
		{-0.8, -0.6, -0.72},
		{3, 3, 1},
		{-3, -3, -1},
		{math.NaN(), 0.5, 0.2},
		{math.NaN(), math.NaN(), 0},
	}
	for _, c := range cases {
		got := Combine(c.rule, c.stat)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Combine(%v, %v) = %v, want %v", c.rule, c.stat, got, c.want)
		}
	}
}

func TestAnalyzeEmptyReturnsDefault(t *testing.T) {
	a := newTestAnalyzer(-0.9, -0.9)
	r := a.Analyze("")
	if r.Score != 0 || r.Category != Neutral || r.CrisisDetected || r.CrisisSeverity != SeverityNone {
		t.Fatalf("unexpected default result: %+v", r)
	}
	if r.MentalState.Any() {
		t.Fatalf("default result should have no mental state flags")
	}
	if r.Timestamp.IsZero() {
		t.Fatalf("default result should still be timestamped")
	}
}

func TestAnalyzeAnyNonString(t *testing.T) {
	a := newTestAnalyzer(0.9, 0.9)
	for _, v := range []any{nil, 42, []string{"happy"}} {
		r := a.AnalyzeAny(v)
		if r.Category != Neutral || r.Score != 0 {
			t.Fatalf("AnalyzeAny(%v) = %+v, want neutral default", v, r)
		}
	}
	if r := a.AnalyzeAny("good day"); r.Score == 0 {
		t.Fatalf("string input should be analyzed")
	}
}

func TestAnalyzeWhitespaceOnlyIsAnalyzed(t *testing.T) {
	a := newTestAnalyzer(0, 0)
	r := a.Analyze("   ")
	if r.RawText != "   " || r.Normalized != "" {
		t.Fatalf("unexpected normalization: %+v", r)
	}
	if r.Category != Neutral {
		t.Fatalf("category = %s, want neutral", r.Category)
	}
}

func TestAnalyzeCrisisText(t *testing.T) {
	a := newTestAnalyzer(-0.9, -0.8)
	r := a.Analyze("  I Want To Die  ")
	if r.Normalized != "i want to die" {
		t.Fatalf("normalized = %q", r.Normalized)
	}
	if !r.CrisisDetected || r.CrisisSeverity != SeverityCritical || r.CrisisPhrase != "i want to die" {
		t.Fatalf("expected critical crisis, got %+v", r)
	}
	if r.Category != VeryNegative {
		t.Fatalf("category = %s, want very_negative", r.Category)
	}
	if math.Abs(r.Intensity-0.86) > 1e-9 {
		t.Fatalf("intensity = %v, want 0.86", r.Intensity)
	}
}

func TestAnalyzeMentalStateFlags(t *testing.T) {
	a := newTestAnalyzer(0.3, 0.1)
	r := a.Analyze("I'm stressed about work but grateful for my friends")
	if !r.MentalState.Stress || !r.MentalState.Positive {
		t.Fatalf("expected stress and positive flags, got %+v", r.MentalState)
	}
	if r.MentalState.Depression || r.MentalState.SelfHarm {
		t.Fatalf("unexpected flags: %+v", r.MentalState)
	}
	if r.CrisisDetected {
		t.Fatalf("no crisis expected")
	}
}

func TestCompareBands(t *testing.T) {
	scores := map[string]float64{}
	score := ScorerFunc(func(text string) float64 { return scores[text] })
	a := NewAnalyzer(score, score, quietLogger())

	cases := []struct {
		pre, post                   float64
		improved, degraded, stable bool
	}{
		{-0.5, 0.5, true, false, false},
		{0.5, -0.5, false, true, false},
		{0.2, 0.25, false, false, true},
		{0, 0.1, false, false, true},
	}
	for _, c := range cases {
		scores["before"] = c.pre
		scores["after"] = c.post
		cmp := a.Compare("before", "after")
		if cmp.Improved != c.improved || cmp.Degraded != c.degraded || cmp.Stable != c.stable {
			t.Fatalf("Compare(%v -> %v) = %+v", c.pre, c.post, cmp)
		}
		if math.Abs(cmp.Change-(c.post-c.pre)) > 1e-9 {
			t.Fatalf("change = %v, want %v", cmp.Change, c.post-c.pre)
		}
	}
}
