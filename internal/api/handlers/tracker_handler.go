package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/mindwell/internal/chatbot"
	"github.com/yoockh/mindwell/internal/session"
	"github.com/yoockh/mindwell/internal/utils"
)

// TrackerHandler exposes the in-memory session/mood tracker.
type TrackerHandler struct {
	sessions *session.Manager
	bot      Responder
}

func NewTrackerHandler(sessions *session.Manager, bot Responder) *TrackerHandler {
	return &TrackerHandler{sessions: sessions, bot: bot}
}

type TrackerMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type TrackerMessageResponse struct {
	Reply   ChatMessageResponse `json:"reply"`
	Session session.Summary     `json:"session"`
}

// ownedSession loads a tracker session and checks that it belongs to userID.
// Other users' sessions are reported as missing.
func ownedSession(ctx context.Context, m *session.Manager, op, id, userID string) (*session.UserSession, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", utils.ErrNotFound)
	}
	return s, nil
}

// converse runs one user message through the chatbot and appends the exchange
// and the resulting mood to the tracker session. Non-crisis replies carry a
// follow-up question picked by how many exchanges came before.
func converse(ctx context.Context, m *session.Manager, bot Responder, op, id, userID, content string) (*chatbot.Result, *session.UserSession, error) {
	s, err := ownedSession(ctx, m, op, id, userID)
	if err != nil {
		return nil, nil, err
	}
	if !s.Active {
		return nil, nil, utils.E(utils.CodeConflict, op, "session has ended", nil)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}

	res, err := bot.ProcessMessage(ctx, userID, content, chatbot.Options{})
	if err != nil {
		return nil, nil, err
	}
	if !res.IsCrisis {
		res.FollowUp = chatbot.FollowUpQuestion(res.Emotion, res.Topic, len(s.History)/2)
	}
	meta := map[string]any{
		"emotion":   res.Emotion,
		"topic":     res.Topic,
		"is_crisis": res.IsCrisis,
	}
	s, err = m.Exchange(ctx, id, content, res.Response, res.Sentiment, meta)
	if err != nil {
		return nil, nil, err
	}
	return res, s, nil
}

func (h *TrackerHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	s, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.Summary())
}

func (h *TrackerHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.sessions.ListActive(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": rows})
}

func (h *TrackerHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	s, err := ownedSession(c.Request.Context(), h.sessions, "TrackerHandler.Get", c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *TrackerHandler) PostMessage(c *gin.Context) {
	const op = "TrackerHandler.PostMessage"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req TrackerMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "content is required", err))
		return
	}

	res, s, err := converse(c.Request.Context(), h.sessions, h.bot, op, c.Param("id"), userID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TrackerMessageResponse{
		Reply:   newChatMessageResponse(res),
		Session: s.Summary(),
	})
}

func (h *TrackerHandler) Mood(c *gin.Context) {
	const op = "TrackerHandler.Mood"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	s, err := ownedSession(c.Request.Context(), h.sessions, op, c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":   s.ID,
		"mood_change":  s.MoodChange(),
		"mood_log":     s.MoodLog,
		"current_mood": s.CurrentMood,
	})
}

func (h *TrackerHandler) End(c *gin.Context) {
	const op = "TrackerHandler.End"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := ownedSession(c.Request.Context(), h.sessions, op, id, userID); err != nil {
		writeError(c, err)
		return
	}
	s, err := h.sessions.End(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Summary())
}

func (h *TrackerHandler) Delete(c *gin.Context) {
	const op = "TrackerHandler.Delete"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := ownedSession(c.Request.Context(), h.sessions, op, id, userID); err != nil {
		writeError(c, err)
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
