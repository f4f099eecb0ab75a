package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/internal/session"
	"github.com/yoockh/mindwell/internal/utils"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler serves a chat socket bound to one tracker session.
type WSHandler struct {
	sessions *session.Manager
	bot      Responder
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions *session.Manager, bot Responder, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		sessions: sessions,
		bot:      bot,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict to the web client origin once it has a fixed domain
		},
	}
}

type wsClientMsg struct {
	Type    string `json:"type"` // message|ping|end_session
	Content string `json:"content"`
}

type wsServerMsg struct {
	Type    string               `json:"type"` // reply|pong|status|error
	Reply   *ChatMessageResponse `json:"reply,omitempty"`
	Session *session.Summary     `json:"session,omitempty"`
	Status  string               `json:"status,omitempty"`
	Code    utils.Code           `json:"code,omitempty"`
	Message string               `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v wsServerMsg) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
}

func wsError(err error) wsServerMsg {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return wsServerMsg{Type: "error", Code: ae.Code, Message: ae.Message}
	}
	return wsServerMsg{Type: "error", Code: utils.CodeOf(err), Message: "internal error"}
}

func (h *WSHandler) TrackerWS(c *gin.Context) {
	const op = "WSHandler.TrackerWS"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if _, err := ownedSession(c.Request.Context(), h.sessions, op, sessionID, userID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	log := h.log.WithFields(logrus.Fields{"session_id": sessionID, "user_id": userID})
	wc := &wsConn{c: conn}

	// the request context ends with the handler, not with the socket
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	go func() {
		t := time.NewTicker(wsPingInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := wc.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "invalid json"})
			continue
		}

		switch msg.Type {
		case "message":
			res, s, err := converse(ctx, h.sessions, h.bot, op, sessionID, userID, msg.Content)
			if err != nil {
				_ = wc.writeJSON(wsError(err))
				continue
			}
			reply := newChatMessageResponse(res)
			sum := s.Summary()
			if err := wc.writeJSON(wsServerMsg{Type: "reply", Reply: &reply, Session: &sum}); err != nil {
				return
			}

		case "ping":
			_ = wc.writeJSON(wsServerMsg{Type: "pong"})

		case "end_session":
			s, err := h.sessions.End(ctx, sessionID)
			if err != nil {
				log.WithError(err).Warn("failed to end session over websocket")
				_ = wc.writeJSON(wsError(err))
				return
			}
			sum := s.Summary()
			_ = wc.writeJSON(wsServerMsg{Type: "status", Status: "ended", Session: &sum})
			return

		default:
			_ = wc.writeJSON(wsServerMsg{Type: "error", Code: utils.CodeInvalidArgument, Message: "unknown message type"})
		}
	}
}
