package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/mindwell/internal/models"
)

const (
	DefaultCrisisStream = "crisis:alerts"
	defaultCrisisGroup  = "crisis-auditors"
	eventField          = "event"
)

// CrisisPublisher appends crisis events to a redis stream.
type CrisisPublisher struct {
	Redis  *redis.Client
	Stream string
}

func NewCrisisPublisher(rdb *redis.Client, stream string) *CrisisPublisher {
	if stream == "" {
		stream = DefaultCrisisStream
	}
	return &CrisisPublisher{Redis: rdb, Stream: stream}
}

func (p *CrisisPublisher) Publish(ctx context.Context, e models.CrisisEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.Stream,
		Values: map[string]any{eventField: string(b)},
	}).Err()
}

// EventWriter stores a crisis event.
type EventWriter interface {
	Insert(ctx context.Context, e *models.CrisisEvent) error
}

// CrisisAlertPool consumes the crisis stream through a consumer group and
// records each event. Events that fail to store stay pending and are retried
// from the consumer's pending list; malformed messages are acked and dropped.
type CrisisAlertPool struct {
	Redis      *redis.Client
	Events     EventWriter
	NumWorkers int

	Logger logrus.FieldLogger

	Stream         string
	Group          string
	ConsumerPrefix string
	Block          time.Duration
	RetryDelay     time.Duration
}

const (
	newMessages     = ">"
	pendingMessages = "0"
)

func (p *CrisisAlertPool) Start(ctx context.Context) error {
	if err := p.init(ctx); err != nil {
		return err
	}
	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *CrisisAlertPool) init(ctx context.Context) error {
	if p.Redis == nil || p.Events == nil {
		return errors.New("CrisisAlertPool missing dependency: Redis/Events must be set")
	}
	if p.Stream == "" {
		p.Stream = DefaultCrisisStream
	}
	if p.Group == "" {
		p.Group = defaultCrisisGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Block <= 0 {
		p.Block = 5 * time.Second
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = 2 * time.Second
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP
	return nil
}

func (p *CrisisAlertPool) runConsumer(ctx context.Context, consumer string) {
	retry := false
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := newMessages
		if retry {
			start = pendingMessages
		}
		n, failed, err := p.readBatch(ctx, consumer, start)
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).Warn("crisis stream read failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if retry && n == 0 {
			retry = false
		}
		if failed > 0 {
			retry = true
			time.Sleep(p.RetryDelay)
		}
	}
}

// readBatch handles up to ten messages from start (">" for new messages, "0"
// for this consumer's pending ones). It returns how many it processed and how
// many were left pending because they could not be stored.
func (p *CrisisAlertPool) readBatch(ctx context.Context, consumer, start string) (int, int, error) {
	block := p.Block
	if start != newMessages {
		block = -1
	}
	res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    p.Group,
		Consumer: consumer,
		Streams:  []string{p.Stream, start},
		Count:    10,
		Block:    block,
	}).Result()
	if err != nil {
		return 0, 0, err
	}

	n, failed := 0, 0
	for _, stream := range res {
		for _, msg := range stream.Messages {
			n++
			if !p.handleMsg(ctx, msg) {
				failed++
				continue
			}
			_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
		}
	}
	return n, failed, nil
}

// handleMsg reports whether the message is done with and can be acked.
func (p *CrisisAlertPool) handleMsg(ctx context.Context, msg redis.XMessage) bool {
	log := p.Logger.WithField("redis_id", msg.ID)

	raw, _ := msg.Values[eventField].(string)
	if raw == "" {
		log.Warn("crisis message without payload")
		return true
	}
	var e models.CrisisEvent
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		log.WithError(err).Warn("crisis payload decode failed")
		return true
	}
	if e.EventID == "" {
		e.EventID = msg.ID
	}
	if err := p.Events.Insert(ctx, &e); err != nil {
		log.WithError(err).WithField("user_id", e.UserID).Error("failed to record crisis event, will retry")
		return false
	}
	log.WithFields(logrus.Fields{
		"user_id":  e.UserID,
		"severity": e.Severity,
	}).Info("crisis event recorded")
	return true
}
