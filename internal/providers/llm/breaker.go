package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker stops calling a failing dependency for a cooldown period after
// maxFailures consecutive errors, then lets one call through (half-open).
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	log         logrus.FieldLogger

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	open        bool
	now         func() time.Time
}

func NewBreaker(name string, maxFailures int, cooldown time.Duration, log logrus.FieldLogger) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		log:         log.WithField("breaker", name),
		now:         time.Now,
	}
}

func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.open {
		if b.now().Sub(b.lastFailure) <= b.cooldown {
			until := b.lastFailure.Add(b.cooldown)
			b.mu.Unlock()
			return fmt.Errorf("%w: %s until %s", ErrCircuitOpen, b.name, until.Format(time.RFC3339))
		}
		b.open = false
		b.failures = 0
		b.log.Info("circuit half-open")
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		b.lastFailure = b.now()
		if b.failures >= b.maxFailures && !b.open {
			b.open = true
			b.log.WithField("failures", b.failures).Warn("circuit opened")
		}
		return err
	}
	if b.failures > 0 {
		b.log.WithField("failures", b.failures).Info("circuit closed")
	}
	b.failures = 0
	return nil
}

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.open = false
}

// Guarded turns a Provider into a one-shot generator with a per-call timeout
// behind a Breaker.
type Guarded struct {
	provider Provider
	breaker  *Breaker
	timeout  time.Duration
}

func NewGuarded(p Provider, b *Breaker, timeout time.Duration) *Guarded {
	return &Guarded{provider: p, breaker: b, timeout: timeout}
}

func (g *Guarded) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	err := g.breaker.Call(func() error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		text, err := Collect(callCtx, g.provider, prompt)
		if err != nil {
			return err
		}
		if text == "" {
			return errors.New("empty completion")
		}
		out = text
		return nil
	})
	return out, err
}

func (g *Guarded) Close() error { return g.provider.Close() }
