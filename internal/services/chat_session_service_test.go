package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/yoockh/mindwell/internal/models"
	"github.com/yoockh/mindwell/internal/utils"
)

func TestClassifyImprovement(t *testing.T) {
	cases := []struct {
		delta                       float64
		improved, stable, declined bool
	}{
		{0.3, true, false, false},
		{0.05, false, true, false},
		{0.1, false, true, false},
		{-0.1, false, true, false},
		{-0.3, false, false, true},
	}
	for _, c := range cases {
		i, s, d := ClassifyImprovement(c.delta)
		if i != c.improved || s != c.stable || d != c.declined {
			t.Fatalf("ClassifyImprovement(%v) = %v %v %v", c.delta, i, s, d)
		}
	}
}

func newTestChatSessionService() (*chatSessionService, *fakeConvos) {
	convos := &fakeConvos{}
	svc := NewChatSessionService(newFakeUsers(), newFakeSessions(), convos).(*chatSessionService)
	return svc, convos
}

func TestChatSessionLifecycle(t *testing.T) {
	svc, convos := newTestChatSessionService()
	ctx := context.Background()

	cs, err := svc.Start(ctx, "u1", "sadness", -0.5)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 2; i++ {
		id := cs.ID
		_ = convos.Insert(ctx, &models.Conversation{UserID: "u1", ChatSessionID: &id})
	}

	res, err := svc.End(ctx, "u1", cs.ID, "joy", -0.2)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if math.Abs(res.Improvement-0.3) > 1e-9 || !res.Improved || res.Stable || res.Declined {
		t.Fatalf("end result = %+v", res)
	}
	if res.MessageCount != 2 {
		t.Fatalf("MessageCount = %d, want 2", res.MessageCount)
	}

	_, err = svc.End(ctx, "u1", cs.ID, "joy", 0.9)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("second End err = %v, want conflict", err)
	}
}

func TestChatSessionEndStable(t *testing.T) {
	svc, _ := newTestChatSessionService()
	ctx := context.Background()
	cs, _ := svc.Start(ctx, "u1", "neutral", 0.1)
	res, err := svc.End(ctx, "u1", cs.ID, "neutral", 0.15)
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if !res.Stable || res.Improved || res.Declined {
		t.Fatalf("end result = %+v, want stable", res)
	}
}

func TestChatSessionEndNotFound(t *testing.T) {
	svc, _ := newTestChatSessionService()
	ctx := context.Background()
	if _, err := svc.End(ctx, "u1", "5b8e0c1a-9d2f-4e7a-8c3b-1f6d2a4e9b70", "joy", 0.2); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}

	cs, _ := svc.Start(ctx, "owner", "neutral", 0)
	if _, err := svc.End(ctx, "intruder", cs.ID, "joy", 0.2); !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("err = %v, want not found for another user's session", err)
	}
}

func TestChatSessionMalformedIDIsNotFound(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewChatSessionService(newFakeUsers(), sessions, &fakeConvos{})
	ctx := context.Background()

	for _, id := range []string{"cs-9", "not-a-uuid", "1234"} {
		if _, err := svc.End(ctx, "u1", id, "joy", 0.2); !utils.IsCode(err, utils.CodeNotFound) {
			t.Fatalf("End(%q) err = %v, want not found", id, err)
		}
		if err := svc.Validate(ctx, "u1", id); !utils.IsCode(err, utils.CodeNotFound) {
			t.Fatalf("Validate(%q) err = %v, want not found", id, err)
		}
	}
	if sessions.gets != 0 {
		t.Fatalf("malformed ids reached the repository %d times", sessions.gets)
	}
}

func TestChatSessionValidate(t *testing.T) {
	svc, _ := newTestChatSessionService()
	ctx := context.Background()

	open, _ := svc.Start(ctx, "u1", "neutral", 0)
	ended, _ := svc.Start(ctx, "u1", "neutral", 0)
	if _, err := svc.End(ctx, "u1", ended.ID, "joy", 0.5); err != nil {
		t.Fatalf("End: %v", err)
	}

	cases := []struct {
		name   string
		userID string
		id     string
		want   utils.Code
	}{
		{"own open session", "u1", open.ID, ""},
		{"unknown session", "u1", "5b8e0c1a-9d2f-4e7a-8c3b-1f6d2a4e9b70", utils.CodeNotFound},
		{"another user's session", "u2", open.ID, utils.CodeNotFound},
		{"ended session", "u1", ended.ID, utils.CodeConflict},
		{"missing user", "", open.ID, utils.CodeInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Validate(ctx, tc.userID, tc.id)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !utils.IsCode(err, tc.want) {
				t.Fatalf("Validate err = %v, want %s", err, tc.want)
			}
		})
	}
}

func TestImprovementStats(t *testing.T) {
	svc, _ := newTestChatSessionService()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	svc.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Hour) }

	deltas := [][2]float64{{-0.5, 0.0}, {0.2, 0.25}, {0.4, 0.0}}
	for _, d := range deltas {
		cs, err := svc.Start(ctx, "u1", "neutral", d[0])
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if _, err := svc.End(ctx, "u1", cs.ID, "neutral", d[1]); err != nil {
			t.Fatalf("End: %v", err)
		}
	}
	if _, err := svc.Start(ctx, "u1", "neutral", 0); err != nil {
		t.Fatalf("Start: %v", err)
	}

	st, err := svc.ImprovementStats(ctx, "u1")
	if err != nil {
		t.Fatalf("ImprovementStats: %v", err)
	}
	if st.TotalSessions != 4 || st.ImprovedSessions != 1 || st.DeclinedSessions != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if math.Abs(st.ImprovementRate-25) > 1e-9 {
		t.Fatalf("rate = %v, want 25", st.ImprovementRate)
	}

	hist, err := svc.History(ctx, "u1", 2)
	if err != nil || len(hist) != 2 {
		t.Fatalf("history = %d, %v", len(hist), err)
	}
	if !hist[0].SessionStart.After(hist[1].SessionStart) {
		t.Fatalf("history not newest first")
	}
}
