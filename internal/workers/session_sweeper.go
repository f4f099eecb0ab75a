package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper removes sessions idle for longer than maxAge.
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

type SessionSweeper struct {
	Sessions Sweeper
	Interval time.Duration
	MaxAge   time.Duration
	Logger   logrus.FieldLogger
}

func (s *SessionSweeper) Start(ctx context.Context) {
	if s.Interval <= 0 {
		s.Interval = 10 * time.Minute
	}
	if s.MaxAge <= 0 {
		s.MaxAge = 24 * time.Hour
	}
	if s.Logger == nil {
		s.Logger = logrus.New()
	}

	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

func (s *SessionSweeper) RunOnce(ctx context.Context) int {
	n, err := s.Sessions.Sweep(ctx, s.MaxAge)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).Error("session sweep failed")
	}
	return n
}
