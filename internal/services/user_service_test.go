package services

import (
	"context"
	"testing"
)

func TestPrimaryEmotion(t *testing.T) {
	cases := []struct {
		dist map[string]int
		want string
	}{
		{nil, "unknown"},
		{map[string]int{"joy": 1, "sadness": 3, "fear": 2}, "sadness"},
		{map[string]int{"joy": 2, "anger": 2}, "anger"},
	}
	for _, c := range cases {
		if got := PrimaryEmotion(c.dist); got != c.want {
			t.Fatalf("PrimaryEmotion(%v) = %s, want %s", c.dist, got, c.want)
		}
	}
}

func TestUserSummary(t *testing.T) {
	users, convos, moods := newFakeUsers(), &fakeConvos{}, &fakeMoods{}
	cs := NewConversationService(users, convos, moods)
	us := NewUserService(users, cs)
	ctx := context.Background()

	for _, in := range []TurnInput{
		{UserID: "u1", UserMessage: "a", Emotion: "fear", SentimentScore: -0.4, IsCrisis: true},
		{UserID: "u1", UserMessage: "b", Emotion: "fear", SentimentScore: 0},
		{UserID: "u1", UserMessage: "c", Emotion: "joy", SentimentScore: 0.4},
	} {
		if _, err := cs.SaveTurn(ctx, in); err != nil {
			t.Fatalf("SaveTurn: %v", err)
		}
	}

	sum, err := us.Summary(ctx, "u1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.PrimaryEmotion != "fear" || sum.TotalConversations != 3 || sum.CrisisIncidents != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.AverageSentiment > 1e-9 || sum.AverageSentiment < -1e-9 {
		t.Fatalf("average = %v, want 0", sum.AverageSentiment)
	}

	empty, err := us.Summary(ctx, "nobody")
	if err != nil {
		t.Fatalf("Summary for unknown user: %v", err)
	}
	if empty.PrimaryEmotion != "unknown" || empty.TotalConversations != 0 {
		t.Fatalf("empty summary = %+v", empty)
	}
}
