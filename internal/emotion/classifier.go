package emotion

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	Neutral = "neutral"

	// maxInputRunes is the model's input limit.
	maxInputRunes = 512
)

// crisisPhrases is the classifier's own crisis list. It is shorter than the
// sentiment detector's and is not reconciled with it.
var crisisPhrases = []string{
	"kill myself", "suicide", "want to die", "no point living",
	"end it all", "hurt myself", "self harm", "overdose",
	"jump", "harm",
}

type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Model returns predictions ordered by descending score.
type Model interface {
	Predict(ctx context.Context, text string) ([]Prediction, error)
}

type Ranked struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

type Result struct {
	Primary    string   `json:"primary_emotion"`
	Confidence float64  `json:"confidence"`
	All        []Ranked `json:"all_emotions"`
	IsCrisis   bool     `json:"is_crisis"`
}

func Default() Result {
	return Result{
		Primary:    Neutral,
		Confidence: 0,
		All:        []Ranked{{Emotion: Neutral, Confidence: 1}},
	}
}

type Classifier struct {
	model Model
	log   logrus.FieldLogger
}

// NewClassifier accepts a nil model; every call then returns Default.
func NewClassifier(model Model, log logrus.FieldLogger) *Classifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if model == nil {
		log.Warn("emotion model unavailable, classifier will return neutral")
	}
	return &Classifier{model: model, log: log}
}

func (c *Classifier) Classify(ctx context.Context, text string) Result {
	if c.model == nil {
		return Default()
	}

	preds, err := c.model.Predict(ctx, truncate(text, maxInputRunes))
	if err != nil {
		c.log.WithError(err).Error("emotion classification failed")
		return Default()
	}
	if len(preds) == 0 {
		return Default()
	}

	all := make([]Ranked, len(preds))
	for i, p := range preds {
		all[i] = Ranked{Emotion: p.Label, Confidence: round3(p.Score)}
	}
	res := Result{
		Primary:    preds[0].Label,
		Confidence: round3(preds[0].Score),
		All:        all,
		IsCrisis:   IsCrisis(text),
	}
	c.log.WithFields(logrus.Fields{
		"emotion":    res.Primary,
		"confidence": res.Confidence,
	}).Debug("emotion detected")
	return res
}

// IsCrisis is a case-insensitive containment check against the classifier's
// crisis list.
func IsCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range crisisPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

type Guidance struct {
	Tone     string   `json:"tone"`
	Approach string   `json:"approach"`
	Keywords []string `json:"keywords"`
}

var guidance = map[string]Guidance{
	"sadness": {Tone: "empathetic", Approach: "validation and support", Keywords: []string{"understand", "valid", "support", "help"}},
	"anxiety": {Tone: "calming", Approach: "grounding and reassurance", Keywords: []string{"calm", "manage", "tools", "control"}},
	"anger":   {Tone: "non-judgmental", Approach: "acknowledgment and channeling", Keywords: []string{"understand", "valid", "express", "move forward"}},
	"fear":    {Tone: "reassuring", Approach: "grounding and support", Keywords: []string{"safe", "support", "manageable", "together"}},
	"joy":     {Tone: "positive", Approach: "encouragement", Keywords: []string{"great", "celebrate", "continue"}},
	Neutral:   {Tone: "professional", Approach: "informational", Keywords: []string{"help", "suggest", "available"}},
}

// Context returns response guidance for an emotion label, defaulting to neutral.
func Context(label string) Guidance {
	if g, ok := guidance[label]; ok {
		return g
	}
	return guidance[Neutral]
}
