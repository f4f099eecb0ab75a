package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/internal/crisis"
	"github.com/yoockh/mindwell/internal/emotion"
	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/services"
	"github.com/yoockh/mindwell/internal/utils"
)

// Generator produces the free-text part of a non-crisis reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder persists a processed turn.
type Recorder interface {
	SaveTurn(ctx context.Context, in services.TurnInput) (*models.Conversation, error)
}

// Alerter forwards escalations for auditing.
type Alerter interface {
	Publish(ctx context.Context, e models.CrisisEvent) error
}

type Deps struct {
	Emotions  *emotion.Classifier
	Sentiment *sentiment.Analyzer
	Crisis    *crisis.Handler
	Generator Generator // optional
	Recorder  Recorder  // optional
	Alerter   Alerter   // optional
	Log       logrus.FieldLogger
}

type Chatbot struct {
	emotions  *emotion.Classifier
	sentiment *sentiment.Analyzer
	crisis    *crisis.Handler
	gen       Generator
	rec       Recorder
	alerts    Alerter
	log       logrus.FieldLogger
	now       func() time.Time
}

func New(d Deps) *Chatbot {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Chatbot{
		emotions:  d.Emotions,
		sentiment: d.Sentiment,
		crisis:    d.Crisis,
		gen:       d.Generator,
		rec:       d.Recorder,
		alerts:    d.Alerter,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type Options struct {
	// ChatSessionID links the stored turn to a chat session.
	ChatSessionID string
}

type Result struct {
	ConversationID    string            `json:"conversation_id,omitempty"`
	Response          string            `json:"response"`
	Emotion           string            `json:"emotion"`
	EmotionConfidence float64           `json:"emotion_confidence"`
	Sentiment         sentiment.Result  `json:"sentiment"`
	IsCrisis          bool              `json:"is_crisis"`
	Crisis            crisis.Assessment `json:"crisis"`
	Topic             string            `json:"topic"`
	CopingStrategy    string            `json:"coping_strategy,omitempty"`
	RelaxationTip     string            `json:"relaxation_tip,omitempty"`
	// FollowUp is set by callers that track conversation length.
	FollowUp  string `json:"follow_up,omitempty"`
	Persisted bool   `json:"persisted"`
}

// ProcessMessage runs one message through classification, scoring, topic and
// emotion resolution, the crisis rules, reply construction and persistence.
// Storage and alert failures are logged and do not fail the call.
func (c *Chatbot) ProcessMessage(ctx context.Context, userID, message string, opts Options) (*Result, error) {
	const op = "Chatbot.ProcessMessage"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if strings.TrimSpace(message) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message cannot be empty", nil)
	}

	log := c.log.WithField("user_id", userID)

	emo := c.emotions.Classify(ctx, message)
	sent := c.sentiment.Analyze(message)
	topic := ExtractTopic(message)
	resolved := ResolveEmotion(emo.Primary, message)

	decision := c.crisis.Decide(message, sent.Score)
	assessment := crisis.Evaluate(sent, decision)

	log.WithFields(logrus.Fields{
		"emotion":    resolved,
		"confidence": emo.Confidence,
		"sentiment":  sent.Score,
		"topic":      topic,
		"crisis":     assessment.Escalate,
	}).Debug("message analyzed")

	var response string
	if assessment.Escalate {
		response = c.crisis.Response(assessment.Severity)
		log.WithFields(logrus.Fields{
			"severity":      assessment.Severity,
			"phrase_rule":   assessment.PhraseRule,
			"weighted_rule": assessment.WeightedRule,
		}).Warn("crisis response triggered")
	} else {
		response = BuildTherapeuticResponse(c.generate(ctx, log, message, resolved, topic), resolved, topic)
	}

	res := &Result{
		Response:          response,
		Emotion:           resolved,
		EmotionConfidence: emo.Confidence,
		Sentiment:         sent,
		IsCrisis:          assessment.Escalate,
		Crisis:            assessment,
		Topic:             topic,
	}
	switch {
	case !assessment.Escalate:
		res.CopingStrategy = CopingStrategy(resolved, topic)
	case crisis.TierFor(assessment.Severity) != crisis.TierImmediate:
		res.RelaxationTip = c.crisis.Tip()
	}

	if c.rec != nil {
		row, err := c.rec.SaveTurn(ctx, services.TurnInput{
			UserID:            userID,
			ChatSessionID:     opts.ChatSessionID,
			UserMessage:       message,
			BotResponse:       response,
			Emotion:           resolved,
			EmotionConfidence: emo.Confidence,
			SentimentScore:    sent.Score,
			IsCrisis:          assessment.Escalate,
			CrisisKeywords:    assessment.Keywords,
			Topic:             topic,
			MentalState:       sent.MentalState,
		})
		if err != nil {
			log.WithError(err).Error("failed to persist conversation")
		} else {
			res.Persisted = true
			res.ConversationID = row.ID
		}
	}

	if assessment.Escalate && c.alerts != nil {
		ev := models.CrisisEvent{
			EventID:        uuid.NewString(),
			UserID:         userID,
			ConversationID: res.ConversationID,
			Message:        message,
			Severity:       assessment.Severity,
			Tier:           crisis.TierFor(assessment.Severity).Name,
			PhraseRule:     assessment.PhraseRule,
			WeightedRule:   assessment.WeightedRule,
			Keywords:       assessment.Keywords,
			Emotion:        resolved,
			SentimentScore: sent.Score,
			DetectedAt:     c.now(),
		}
		if err := c.alerts.Publish(ctx, ev); err != nil {
			log.WithError(err).Error("failed to publish crisis alert")
		}
	}

	return res, nil
}

// generate returns the deduplicated model output, or the canned template when
// no generator is configured or the call fails.
func (c *Chatbot) generate(ctx context.Context, log logrus.FieldLogger, message, emo, topic string) string {
	if c.gen == nil {
		return TemplateResponse(emo, topic)
	}
	out, err := c.gen.Generate(ctx, Prompt(message, emo, topic))
	if err == nil {
		out = DedupeSentences(out)
	}
	if err != nil || out == "" {
		log.WithError(err).Warn("response generation unavailable, using template")
		return TemplateResponse(emo, topic)
	}
	return out
}

// Prompt frames the message for the generative model.
func Prompt(message, emo, topic string) string {
	g := emotion.Context(emo)
	return fmt.Sprintf(
		"therapy: %s\n\nThe user seems to feel %s and is talking about %s. Reply in a %s tone using %s. Keep it to three sentences.",
		message, emo, topic, g.Tone, g.Approach,
	)
}

// Analyze exposes the scorer for standalone sentiment endpoints.
func (c *Chatbot) Analyze(text string) sentiment.Result {
	return c.sentiment.Analyze(text)
}

func (c *Chatbot) Compare(pre, post string) sentiment.Comparison {
	return c.sentiment.Compare(pre, post)
}
