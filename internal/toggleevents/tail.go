package toggleevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
)

// Handler receives decoded events in publish order per partition or stream.
type Handler func(ctx context.Context, ev Event) error

// Decode parses one published event.
func Decode(b []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return Event{}, fmt.Errorf("toggleevents: decode: %w", err)
	}
	return ev, nil
}

type KafkaTail struct {
	Brokers []string
	Topic   string
	GroupID string
	// start from the oldest retained offset instead of new events only
	FromOldest bool
	Logger     *slog.Logger
}

// Run consumes until ctx is done. Offsets are marked only after h succeeds.
func (t KafkaTail) Run(ctx context.Context, h Handler) error {
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	if t.FromOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	}

	group, err := sarama.NewConsumerGroup(t.Brokers, t.GroupID, cfg)
	if err != nil {
		return fmt.Errorf("toggleevents: create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	handler := &groupHandler{process: messageProcessor(h)}
	logger.Info("toggle event tail starting", "brokers", t.Brokers, "topic", t.Topic, "group", t.GroupID)

	for {
		if err := group.Consume(ctx, []string{t.Topic}, handler); err != nil {
			logger.Error("consumer error", "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(2 * time.Second):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func messageProcessor(h Handler) func(context.Context, *sarama.ConsumerMessage) error {
	return func(ctx context.Context, msg *sarama.ConsumerMessage) error {
		ev, err := Decode(msg.Value)
		if err != nil {
			return err
		}
		return h(ctx, ev)
	}
}

type groupHandler struct {
	process func(context.Context, *sarama.ConsumerMessage) error
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(ctx, msg); err != nil {
				return fmt.Errorf("process failed (topic=%s, part=%d, off=%d): %w",
					msg.Topic, msg.Partition, msg.Offset, err)
			}
			sess.MarkMessage(msg, "")
		}
	}
}

type RedisTail struct {
	Client *redis.Client
	Stream string
	// "$" for new entries only, "0" for the whole stream
	From   string
	Block  time.Duration
	Logger *slog.Logger
}

// Run reads with XREAD until ctx is done or h fails.
func (t RedisTail) Run(ctx context.Context, h Handler) error {
	if t.Client == nil {
		return errors.New("toggleevents: redis tail needs a client")
	}
	last := t.From
	if last == "" {
		last = "$"
	}
	block := t.Block
	if block <= 0 {
		block = time.Second
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		streams, err := t.Client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{t.Stream, last},
			Block:   block,
			Count:   100,
		}).Result()
		switch {
		case errors.Is(err, redis.Nil):
			continue
		case ctx.Err() != nil:
			return nil
		case err != nil:
			return fmt.Errorf("toggleevents: XREAD %s: %w", t.Stream, err)
		}
		for _, s := range streams {
			for _, m := range s.Messages {
				last = m.ID
				raw, _ := m.Values["event"].(string)
				ev, err := Decode([]byte(raw))
				if err != nil {
					logger.Warn("skipping undecodable stream entry", "id", m.ID, "err", err)
					continue
				}
				if err := h(ctx, ev); err != nil {
					return err
				}
			}
		}
	}
}
