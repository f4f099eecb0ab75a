package chatbot

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/internal/crisis"
	"github.com/yoockh/mindwell/internal/emotion"
	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/services"
	"github.com/yoockh/mindwell/internal/utils"
)

type stubModel struct{ label string }

func (m stubModel) Predict(context.Context, string) ([]emotion.Prediction, error) {
	return []emotion.Prediction{{Label: m.label, Score: 0.91234}, {Label: "neutral", Score: 0.05}}, nil
}

type stubGenerator struct {
	out    string
	err    error
	prompt string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.out, g.err
}

type recorder struct {
	turns []services.TurnInput
	err   error
}

func (r *recorder) SaveTurn(_ context.Context, in services.TurnInput) (*models.Conversation, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.turns = append(r.turns, in)
	return &models.Conversation{ID: "conv-1"}, nil
}

type alerter struct{ events []models.CrisisEvent }

func (a *alerter) Publish(_ context.Context, e models.CrisisEvent) error {
	a.events = append(a.events, e)
	return nil
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestBot(score float64, label string, gen Generator, rec Recorder, al Alerter) *Chatbot {
	log := quietLogger()
	s := sentiment.ScorerFunc(func(string) float64 { return score })
	return New(Deps{
		Emotions:  emotion.NewClassifier(stubModel{label: label}, log),
		Sentiment: sentiment.NewAnalyzer(s, s, log),
		Crisis:    crisis.NewHandler(),
		Generator: gen,
		Recorder:  rec,
		Alerter:   al,
		Log:       log,
	})
}

func TestProcessMessageNormal(t *testing.T) {
	gen := &stubGenerator{out: "That sounds hard. That sounds hard. Let's talk it through"}
	rec := &recorder{}
	al := &alerter{}
	bot := newTestBot(-0.2, "fear", gen, rec, al)

	res, err := bot.ProcessMessage(context.Background(), "u1", "I'm so anxious about my job interview", Options{ChatSessionID: "7f0c2a5e-3b1d-4c8e-9a6f-2d4b8e1c0a93"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if res.Emotion != "anxiety" || res.Topic != "job" || res.IsCrisis {
		t.Fatalf("result = %+v", res)
	}
	if res.EmotionConfidence != 0.912 {
		t.Fatalf("confidence = %v, want 0.912", res.EmotionConfidence)
	}
	want := BuildTherapeuticResponse("That sounds hard. Let's talk it through.", "anxiety", "job")
	if res.Response != want {
		t.Fatalf("response = %q\nwant %q", res.Response, want)
	}
	if !strings.Contains(gen.prompt, "anxiety") || !strings.Contains(gen.prompt, "job") {
		t.Fatalf("prompt missing context: %q", gen.prompt)
	}
	if !res.Persisted || res.ConversationID != "conv-1" || len(rec.turns) != 1 {
		t.Fatalf("turn not recorded: %+v", res)
	}
	turn := rec.turns[0]
	if turn.Emotion != "anxiety" || turn.ChatSessionID != "7f0c2a5e-3b1d-4c8e-9a6f-2d4b8e1c0a93" || turn.BotResponse != res.Response || turn.IsCrisis {
		t.Fatalf("recorded turn = %+v", turn)
	}
	if len(al.events) != 0 {
		t.Fatalf("no alert expected")
	}
	if res.CopingStrategy != CopingStrategy("anxiety", "job") || res.RelaxationTip != "" {
		t.Fatalf("coping = %q, tip = %q", res.CopingStrategy, res.RelaxationTip)
	}
}

func TestProcessMessageGeneratorFailureUsesTemplate(t *testing.T) {
	for _, gen := range []Generator{nil, &stubGenerator{err: errors.New("timeout")}, &stubGenerator{out: "  "}} {
		bot := newTestBot(0, "sadness", gen, nil, nil)
		res, err := bot.ProcessMessage(context.Background(), "u1", "my relationship ended", Options{})
		if err != nil {
			t.Fatalf("ProcessMessage: %v", err)
		}
		want := BuildTherapeuticResponse(TemplateResponse("sadness", "relationship"), "sadness", "relationship")
		if res.Response != want {
			t.Fatalf("response = %q\nwant %q", res.Response, want)
		}
		if res.Persisted {
			t.Fatalf("nothing should be persisted without a recorder")
		}
	}
}

func TestProcessMessageCrisis(t *testing.T) {
	gen := &stubGenerator{out: "should not be used"}
	rec := &recorder{}
	al := &alerter{}
	bot := newTestBot(-0.9, "sadness", gen, rec, al)

	res, err := bot.ProcessMessage(context.Background(), "u1", "I want to kill myself", Options{})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !res.IsCrisis || !res.Crisis.PhraseRule || !res.Crisis.WeightedRule {
		t.Fatalf("expected both crisis rules, got %+v", res.Crisis)
	}
	if !strings.HasPrefix(res.Response, "🔴 🚨 IMMEDIATE SUPPORT NEEDED") {
		t.Fatalf("response = %q", res.Response)
	}
	if gen.prompt != "" {
		t.Fatalf("generator must not run for a crisis")
	}
	if len(rec.turns) != 1 || !rec.turns[0].IsCrisis {
		t.Fatalf("crisis turn not recorded: %+v", rec.turns)
	}
	if len(al.events) != 1 {
		t.Fatalf("alerts = %d, want 1", len(al.events))
	}
	ev := al.events[0]
	if ev.UserID != "u1" || ev.ConversationID != "conv-1" || ev.Severity != 1 || ev.EventID == "" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestProcessMessageCrisisTierExtras(t *testing.T) {
	cases := []struct {
		name    string
		weight  float64
		wantTip bool
	}{
		{"urgent tier gets a relaxation tip", 0.85, true},
		{"immediate tier has no tip", 0.95, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bot := newTestBot(0, "sadness", nil, nil, nil)
			bot.crisis = crisis.NewHandler(crisis.WithKeywords([]crisis.Keyword{{Phrase: "give up", Weight: tc.weight}}))

			res, err := bot.ProcessMessage(context.Background(), "u1", "I just want to give up", Options{})
			if err != nil {
				t.Fatalf("ProcessMessage: %v", err)
			}
			if !res.IsCrisis || res.CopingStrategy != "" {
				t.Fatalf("result = %+v", res)
			}
			if got := res.RelaxationTip != ""; got != tc.wantTip {
				t.Fatalf("tip = %q, want present=%v", res.RelaxationTip, tc.wantTip)
			}
			if tc.wantTip && !contains(crisis.RelaxationTips, res.RelaxationTip) {
				t.Fatalf("tip %q not from the tip list", res.RelaxationTip)
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestProcessMessageWeightedRuleOnly(t *testing.T) {
	bot := newTestBot(0, "sadness", nil, nil, nil)
	res, err := bot.ProcessMessage(context.Background(), "u1", "I keep thinking about death", Options{})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !res.IsCrisis || res.Crisis.PhraseRule || !res.Crisis.WeightedRule {
		t.Fatalf("crisis = %+v", res.Crisis)
	}
	if !strings.HasPrefix(res.Response, "🔴") {
		t.Fatalf("severity 0.9 should use the immediate tier: %q", res.Response)
	}
}

func TestProcessMessageStorageFailureStillResponds(t *testing.T) {
	bot := newTestBot(0.3, "joy", &stubGenerator{out: "Nice!"}, &recorder{err: errors.New("db down")}, nil)
	res, err := bot.ProcessMessage(context.Background(), "u1", "I got the promotion, I'm so happy", Options{})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if res.Persisted || res.Response == "" || res.Emotion != "joy" {
		t.Fatalf("result = %+v", res)
	}
}

func TestProcessMessageValidation(t *testing.T) {
	bot := newTestBot(0, "neutral", nil, nil, nil)
	for _, c := range []struct{ user, msg string }{{"", "hi"}, {"u1", ""}, {"u1", "   "}} {
		_, err := bot.ProcessMessage(context.Background(), c.user, c.msg, Options{})
		if !utils.IsCode(err, utils.CodeInvalidArgument) {
			t.Fatalf("ProcessMessage(%q, %q) err = %v", c.user, c.msg, err)
		}
	}
}
