package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/internal/sentiment"
	"github.com/yoockh/mindwell/internal/utils"
)

const DefaultMaxAge = 24 * time.Hour

// Archiver keeps a copy of a session after it ends.
type Archiver interface {
	Archive(ctx context.Context, s *UserSession) error
}

// Manager owns tracker sessions. Every mutation is a load-modify-store done
// under one lock so concurrent requests on the same session do not lose writes.
type Manager struct {
	store    Store
	archiver Archiver
	log      logrus.FieldLogger
	now      func() time.Time

	mu sync.Mutex
}

func NewManager(store Store, archiver Archiver, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		store:    store,
		archiver: archiver,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a session. An empty userID gets a generated one.
func (m *Manager) Create(ctx context.Context, userID string) (*UserSession, error) {
	const op = "SessionManager.Create"

	if userID == "" {
		userID = uuid.NewString()
	}
	s := NewUserSession(uuid.NewString(), userID, m.now())
	if err := m.store.Save(ctx, s); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}
	m.log.WithFields(logrus.Fields{"session_id": s.ID, "user_id": userID}).Info("tracker session created")
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*UserSession, error) {
	const op = "SessionManager.Get"
	return m.load(ctx, op, id)
}

func (m *Manager) AddMessage(ctx context.Context, id, role, content string, metadata map[string]any) (*UserSession, error) {
	const op = "SessionManager.AddMessage"

	if role != RoleUser && role != RoleAssistant {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be user or assistant", nil)
	}
	if content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}
	return m.update(ctx, op, id, func(s *UserSession, now time.Time) error {
		s.AddMessage(role, content, metadata, now)
		return nil
	})
}

func (m *Manager) RecordMood(ctx context.Context, id string, r sentiment.Result) (*UserSession, error) {
	const op = "SessionManager.RecordMood"
	return m.update(ctx, op, id, func(s *UserSession, now time.Time) error {
		snap := s.RecordMood(r, now)
		m.log.WithFields(logrus.Fields{"session_id": id, "emotion": snap.Emotion}).Debug("mood recorded")
		return nil
	})
}

// Exchange appends a user message, the reply and the user's mood in one
// update. An ended session is a Conflict.
func (m *Manager) Exchange(ctx context.Context, id, userMessage, reply string, r sentiment.Result, metadata map[string]any) (*UserSession, error) {
	const op = "SessionManager.Exchange"
	return m.update(ctx, op, id, func(s *UserSession, now time.Time) error {
		if !s.Active {
			return utils.E(utils.CodeConflict, op, "session has ended", nil)
		}
		s.AddMessage(RoleUser, userMessage, nil, now)
		s.AddMessage(RoleAssistant, reply, metadata, now)
		s.RecordMood(r, now)
		return nil
	})
}

func (m *Manager) MoodChange(ctx context.Context, id string) (MoodChange, error) {
	const op = "SessionManager.MoodChange"
	s, err := m.load(ctx, op, id)
	if err != nil {
		return MoodChange{}, err
	}
	return s.MoodChange(), nil
}

// End marks the session inactive and archives it. Archive failures are
// logged only.
func (m *Manager) End(ctx context.Context, id string) (*UserSession, error) {
	const op = "SessionManager.End"
	s, err := m.update(ctx, op, id, func(s *UserSession, now time.Time) error {
		s.End(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if m.archiver != nil {
		if err := m.archiver.Archive(ctx, s); err != nil {
			m.log.WithError(err).WithField("session_id", id).Error("failed to archive session")
		}
	}
	m.log.WithField("session_id", id).Info("tracker session ended")
	return s, nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	const op = "SessionManager.Delete"

	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.store.Delete(ctx, id)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to delete session", err)
	}
	if !ok {
		return utils.E(utils.CodeNotFound, op, "session not found", utils.ErrNotFound)
	}
	return nil
}

// ListActive returns summaries of active sessions, newest first. A non-empty
// userID restricts the list to that user.
func (m *Manager) ListActive(ctx context.Context, userID string) ([]Summary, error) {
	const op = "SessionManager.ListActive"

	all, err := m.store.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	out := make([]Summary, 0, len(all))
	for _, s := range all {
		if !s.Active || (userID != "" && s.UserID != userID) {
			continue
		}
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Sweep deletes sessions not updated within maxAge and returns how many were
// removed.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	const op = "SessionManager.Sweep"

	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.store.List(ctx)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	cutoff := m.now().Add(-maxAge)
	removed := 0
	for _, s := range all {
		if !s.UpdatedAt.Before(cutoff) {
			continue
		}
		ok, err := m.store.Delete(ctx, s.ID)
		if err != nil {
			return removed, utils.E(utils.CodeInternal, op, "failed to delete session", err)
		}
		if ok {
			removed++
		}
	}
	m.log.WithField("removed", removed).Info("cleaned up old sessions")
	return removed, nil
}

func (m *Manager) load(ctx context.Context, op, id string) (*UserSession, error) {
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	s, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return s, nil
}

// update runs fn on the loaded session under the manager lock and saves the
// result. An error from fn leaves the stored session untouched.
func (m *Manager) update(ctx context.Context, op, id string, fn func(s *UserSession, now time.Time) error) (*UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s, m.now()); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save session", err)
	}
	return s, nil
}
