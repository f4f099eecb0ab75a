package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/mindwell/internal/chatbot"
	"github.com/yoockh/mindwell/internal/crisis"
	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/utils"
)

// Responder is the conversational core used by the HTTP and websocket layers.
type Responder interface {
	ProcessMessage(ctx context.Context, userID, message string, opts chatbot.Options) (*chatbot.Result, error)
	Compare(pre, post string) sentiment.Comparison
}

// SessionValidator checks a client-supplied chat session id before turns are
// linked to it.
type SessionValidator interface {
	Validate(ctx context.Context, userID, sessionID string) error
}

type ChatHandler struct {
	bot      Responder
	sessions SessionValidator
}

func NewChatHandler(bot Responder, sessions SessionValidator) *ChatHandler {
	return &ChatHandler{bot: bot, sessions: sessions}
}

type ChatMessageRequest struct {
	Message       string `json:"message"`
	ChatSessionID string `json:"chat_session_id"`
}

type MessageAnalysis struct {
	PrimaryEmotion    string             `json:"primary_emotion"`
	EmotionConfidence float64            `json:"emotion_confidence"`
	SentimentScore    float64            `json:"sentiment_score"`
	EmotionCategory   sentiment.Category `json:"emotion_category"`
	IsCrisis          bool               `json:"is_crisis"`
	CrisisSeverity    float64            `json:"crisis_severity,omitempty"`
	Topic             string             `json:"topic"`
}

type ChatMessageResponse struct {
	ConversationID string            `json:"conversation_id,omitempty"`
	Response       string            `json:"response"`
	Analysis       MessageAnalysis   `json:"analysis"`
	Persisted      bool              `json:"persisted"`
	CopingStrategy string            `json:"coping_strategy,omitempty"`
	RelaxationTip  string            `json:"relaxation_tip,omitempty"`
	FollowUp       string            `json:"follow_up,omitempty"`
	Resources      []crisis.Resource `json:"resources,omitempty"`
}

func newChatMessageResponse(res *chatbot.Result) ChatMessageResponse {
	out := ChatMessageResponse{
		ConversationID: res.ConversationID,
		Response:       res.Response,
		Persisted:      res.Persisted,
		CopingStrategy: res.CopingStrategy,
		RelaxationTip:  res.RelaxationTip,
		FollowUp:       res.FollowUp,
		Analysis: MessageAnalysis{
			PrimaryEmotion:    res.Emotion,
			EmotionConfidence: res.EmotionConfidence,
			SentimentScore:    res.Sentiment.Score,
			EmotionCategory:   res.Sentiment.Category,
			IsCrisis:          res.IsCrisis,
			Topic:             res.Topic,
		},
	}
	if res.IsCrisis {
		out.Analysis.CrisisSeverity = res.Crisis.Severity
		out.Resources = crisis.Resources
	}
	return out
}

func (h *ChatHandler) Message(c *gin.Context) {
	const op = "ChatHandler.Message"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	if req.ChatSessionID != "" {
		if err := h.sessions.Validate(c.Request.Context(), userID, req.ChatSessionID); err != nil {
			writeError(c, err)
			return
		}
	}

	res, err := h.bot.ProcessMessage(c.Request.Context(), userID, req.Message, chatbot.Options{
		ChatSessionID: req.ChatSessionID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newChatMessageResponse(res))
}

type CompareRequest struct {
	Pre  string `json:"pre" binding:"required"`
	Post string `json:"post" binding:"required"`
}

func (h *ChatHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Compare", "pre and post are required", err))
		return
	}
	c.JSON(http.StatusOK, h.bot.Compare(req.Pre, req.Post))
}

func (h *ChatHandler) Resources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"crisis_resources":        crisis.Resources,
		"relaxation_tips":         crisis.RelaxationTips,
		"mental_health_resources": crisis.MentalHealthResources,
	})
}
