package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/yoockh/mindwell/internal/models"
	pgrepo "github.com/yoockh/mindwell/internal/repositories/postgres"
	"github.com/yoockh/mindwell/internal/utils"
)

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*models.User
	err  error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{rows: map[string]*models.User{}} }

func (f *fakeUsers) EnsureUser(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[userID]; !ok {
		f.rows[userID] = &models.User{UserID: userID}
	}
	return nil
}

func (f *fakeUsers) IncrementConversations(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.rows[userID]; ok {
		u.TotalConversations++
	}
	return nil
}

func (f *fakeUsers) Get(_ context.Context, userID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[userID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeConvos struct {
	mu   sync.Mutex
	rows []models.Conversation
	err  error
}

func (f *fakeConvos) Insert(_ context.Context, c *models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeConvos) LatestN(_ context.Context, userID string, n int) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (f *fakeConvos) CountCrisis(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.UserID == userID && r.IsCrisis {
			n++
		}
	}
	return n, nil
}

func (f *fakeConvos) CountBySession(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.ChatSessionID != nil && *r.ChatSessionID == id {
			n++
		}
	}
	return n, nil
}

type fakeMoods struct {
	mu   sync.Mutex
	rows []models.MoodEntry
}

func (f *fakeMoods) Insert(_ context.Context, m *models.MoodEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMoods) LatestN(_ context.Context, userID string, n int) ([]models.MoodEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MoodEntry
	for i := len(f.rows) - 1; i >= 0 && len(out) < n; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeMoods) EmotionDistribution(_ context.Context, userID string, _ int) ([]models.EmotionCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{}
	for _, r := range f.rows {
		if r.UserID == userID {
			counts[r.Emotion]++
		}
	}
	var out []models.EmotionCount
	for e, c := range counts {
		out = append(out, models.EmotionCount{Emotion: e, Count: c})
	}
	return out, nil
}

func (f *fakeMoods) AverageSentiment(_ context.Context, userID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	var n int
	for _, r := range f.rows {
		if r.UserID == userID {
			sum += r.SentimentScore
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

type fakeSessions struct {
	mu   sync.Mutex
	rows map[string]*models.ChatSession
	gets int
}

func newFakeSessions() *fakeSessions { return &fakeSessions{rows: map[string]*models.ChatSession{}} }

func (f *fakeSessions) Create(_ context.Context, s *models.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeSessions) Get(_ context.Context, id string) (*models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	s, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) End(_ context.Context, id string, end pgrepo.EndFields) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok || s.SessionEnd != nil {
		return false, nil
	}
	t := end.EndedAt
	emo := end.Emotion
	sent := end.Sentiment
	imp := end.Improvement
	s.SessionEnd = &t
	s.FinalEmotion = &emo
	s.FinalSentiment = &sent
	s.MoodImprovement = &imp
	s.MessageCount = end.MessageCount
	return true, nil
}

func (f *fakeSessions) ListByUser(_ context.Context, userID string, limit int) ([]models.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ChatSession
	for _, s := range f.rows {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionStart.After(out[j].SessionStart) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) ImprovementStats(_ context.Context, userID string) (*models.ImprovementStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var st models.ImprovementStats
	var sum float64
	var ended int
	for _, s := range f.rows {
		if s.UserID != userID {
			continue
		}
		st.TotalSessions++
		if s.MoodImprovement == nil {
			continue
		}
		ended++
		sum += *s.MoodImprovement
		if *s.MoodImprovement > 0.1 {
			st.ImprovedSessions++
		}
		if *s.MoodImprovement < -0.1 {
			st.DeclinedSessions++
		}
	}
	if ended > 0 {
		st.AverageImprovement = sum / float64(ended)
	}
	return &st, nil
}

var errBoom = errors.New("boom")
