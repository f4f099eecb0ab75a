package sentiment

import (
	"github.com/cdipaolo/sentiment"
	"github.com/jonreiter/govader"
)

// VaderScorer returns the VADER compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// BayesScorer turns the pretrained naive Bayes model's class probability into
// a polarity: 2*P(positive) - 1.
type BayesScorer struct {
	models sentiment.Models
}

func NewBayesScorer() (*BayesScorer, error) {
	m, err := sentiment.Restore()
	if err != nil {
		return nil, err
	}
	return &BayesScorer{models: m}, nil
}

func (b *BayesScorer) Score(text string) float64 {
	nb, ok := b.models[sentiment.English]
	if !ok || nb == nil {
		return 0
	}
	class, p := nb.Probability(text)
	positive := p
	if class == 0 {
		positive = 1 - p
	}
	return 2*positive - 1
}
