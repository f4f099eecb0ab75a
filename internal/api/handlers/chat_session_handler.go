package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/mindwell/internal/services"
	"github.com/yoockh/mindwell/internal/utils"
)

type ChatSessionHandler struct {
	svc services.ChatSessionService
}

func NewChatSessionHandler(svc services.ChatSessionService) *ChatSessionHandler {
	return &ChatSessionHandler{svc: svc}
}

// MoodRequest carries the emotion and sentiment at a session boundary.
// Both are optional and default to neutral.
type MoodRequest struct {
	Emotion        string  `json:"emotion"`
	SentimentScore float64 `json:"sentiment_score"`
}

func (r *MoodRequest) emotion() string {
	if r.Emotion == "" {
		return "neutral"
	}
	return r.Emotion
}

func bindMood(c *gin.Context, op string) (MoodRequest, bool) {
	var req MoodRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return req, false
	}
	if req.SentimentScore < -1 || req.SentimentScore > 1 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "sentiment_score must be within [-1, 1]", nil))
		return req, false
	}
	return req, true
}

func (h *ChatSessionHandler) Start(c *gin.Context) {
	const op = "ChatSessionHandler.Start"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	req, ok := bindMood(c, op)
	if !ok {
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), userID, req.emotion(), req.SentimentScore)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id":        sess.ID,
		"initial_emotion":   sess.InitialEmotion,
		"initial_sentiment": sess.InitialSentiment,
		"session_start":     sess.SessionStart,
	})
}

func (h *ChatSessionHandler) End(c *gin.Context) {
	const op = "ChatSessionHandler.End"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	req, ok := bindMood(c, op)
	if !ok {
		return
	}

	res, err := h.svc.End(c.Request.Context(), userID, c.Param("session_id"), req.emotion(), req.SentimentScore)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"improvement": res})
}

func (h *ChatSessionHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.History(c.Request.Context(), userID, queryLimit(c, 10, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": rows})
}

func (h *ChatSessionHandler) ImprovementStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.ImprovementStats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
