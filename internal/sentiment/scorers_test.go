package sentiment

import "testing"

func newRealAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewDefaultAnalyzer(quietLogger())
	if err != nil {
		t.Fatalf("NewDefaultAnalyzer: %v", err)
	}
	return a
}

const (
	hopeless = "I feel terrible and hopeless"
	relieved = "I feel a bit better now, thank you for listening"
)

func TestVaderScorerPolarity(t *testing.T) {
	v := NewVaderScorer()
	if s := v.Score(hopeless); s >= 0 {
		t.Fatalf("Score(%q) = %v, want negative", hopeless, s)
	}
	if s := v.Score(relieved); s <= 0 {
		t.Fatalf("Score(%q) = %v, want positive", relieved, s)
	}
}

func TestBayesScorerRange(t *testing.T) {
	b, err := NewBayesScorer()
	if err != nil {
		t.Fatalf("NewBayesScorer: %v", err)
	}
	for _, text := range []string{hopeless, relieved, "", "the cat sat on the mat"} {
		if s := b.Score(text); s < -1 || s > 1 {
			t.Fatalf("Score(%q) = %v, outside [-1, 1]", text, s)
		}
	}
}

func TestDefaultAnalyzerCompare(t *testing.T) {
	a := newRealAnalyzer(t)

	pre := a.Analyze(hopeless)
	if pre.Score >= 0 {
		t.Fatalf("pre score = %v, want negative", pre.Score)
	}
	post := a.Analyze(relieved)
	if post.Score <= 0 {
		t.Fatalf("post score = %v, want positive", post.Score)
	}

	cmp := a.Compare(hopeless, relieved)
	if !cmp.Improved || cmp.Stable || cmp.Degraded {
		t.Fatalf("comparison = %+v, want improved", cmp)
	}
	if cmp.Change <= 0.1 {
		t.Fatalf("change = %v, want above 0.1", cmp.Change)
	}
}

func TestDefaultAnalyzerMentalState(t *testing.T) {
	a := newRealAnalyzer(t)
	r := a.Analyze("I'm feeling anxious and overwhelmed")
	if !r.MentalState.Stress {
		t.Fatalf("mental state = %+v, want stress indicators", r.MentalState)
	}
	if r.CrisisDetected {
		t.Fatalf("no crisis expected: %+v", r)
	}
	if r.Score < -1 || r.Score > 1 {
		t.Fatalf("score %v outside [-1, 1]", r.Score)
	}
}
