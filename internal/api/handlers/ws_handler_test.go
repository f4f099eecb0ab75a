package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yoockh/mindwell/internal/utils"
)

func dialTracker(t *testing.T, srv *httptest.Server, sessionID, user string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tracker/" + sessionID
	hdr := http.Header{}
	hdr.Set("X-User-Id", user)
	return websocket.DefaultDialer.Dial(url, hdr)
}

func readServerMsg(t *testing.T, conn *websocket.Conn) wsServerMsg {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var m wsServerMsg
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func TestTrackerWebSocket(t *testing.T) {
	h := newHarness(-0.4)
	srv := httptest.NewServer(h.r)
	defer srv.Close()

	s, err := h.sessions.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	conn, _, err := dialTracker(t, srv, s.ID, "u1")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(wsClientMsg{Type: "message", Content: "my boss keeps shouting at me"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	reply := readServerMsg(t, conn)
	if reply.Type != "reply" || reply.Reply == nil || reply.Session == nil {
		t.Fatalf("reply = %+v", reply)
	}
	if reply.Reply.Analysis.Topic != "job" || reply.Session.MessageCount != 2 {
		t.Fatalf("topic=%q messages=%d", reply.Reply.Analysis.Topic, reply.Session.MessageCount)
	}

	_ = conn.WriteMessage(websocket.TextMessage, []byte("{oops"))
	if m := readServerMsg(t, conn); m.Type != "error" || m.Code != utils.CodeInvalidArgument {
		t.Fatalf("invalid json reply = %+v", m)
	}

	_ = conn.WriteJSON(wsClientMsg{Type: "message", Content: "  "})
	if m := readServerMsg(t, conn); m.Type != "error" || m.Code != utils.CodeInvalidArgument {
		t.Fatalf("empty content reply = %+v", m)
	}

	_ = conn.WriteJSON(wsClientMsg{Type: "ping"})
	if m := readServerMsg(t, conn); m.Type != "pong" {
		t.Fatalf("ping reply = %+v", m)
	}

	_ = conn.WriteJSON(wsClientMsg{Type: "end_session"})
	if m := readServerMsg(t, conn); m.Type != "status" || m.Status != "ended" || m.Session == nil || m.Session.Active {
		t.Fatalf("end reply = %+v", m)
	}

	got, err := h.sessions.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Active || len(got.History) != 2 {
		t.Fatalf("session after socket: active=%v history=%d", got.Active, len(got.History))
	}
}

func TestTrackerWebSocketRejectsForeignSession(t *testing.T) {
	h := newHarness(0)
	srv := httptest.NewServer(h.r)
	defer srv.Close()

	s, err := h.sessions.Create(context.Background(), "owner")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, resp, err := dialTracker(t, srv, s.ID, "intruder")
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("response = %+v", resp)
	}
}
