package toggleevents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/parkmap/internal/core/observability"
)

// streams are capped so a forgotten diagnostic sink cannot grow unbounded
const streamMaxLen = 10000

// Redis appends events to a stream with XADD.
type Redis struct {
	rdb     *redis.Client
	stream  string
	queue   *queue
	logger  *slog.Logger
	stopped chan struct{}
}

func NewRedis(ctx context.Context, addr, stream string, queueSize int, logger *slog.Logger) (*Redis, error) {
	if addr == "" {
		return nil, errors.New("toggleevents: redis address is required")
	}
	if stream == "" {
		return nil, errors.New("toggleevents: redis stream is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("toggleevents: redis ping: %w", err)
	}

	r := &Redis{
		rdb:     rdb,
		stream:  stream,
		queue:   newQueue("redis", queueSize),
		logger:  logger,
		stopped: make(chan struct{}),
	}
	go r.run()
	return r, nil
}

func (r *Redis) run() {
	defer close(r.stopped)
	for ev := range r.queue.events {
		b, err := json.Marshal(ev)
		if err != nil {
			r.logger.Warn("toggle event marshal failed", "err", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = r.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: r.stream,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]any{"park": ev.Park, "event": string(b)},
		}).Err()
		cancel()
		if err != nil {
			observability.IncEventDropped("redis", "xadd_error")
			r.logger.Warn("toggle event XADD failed", "stream", r.stream, "err", err)
		}
	}
}

func (r *Redis) Publish(ev Event) { r.queue.put(ev) }

// Close drains queued events before closing the client. Later calls are
// no-ops.
func (r *Redis) Close() error {
	if !r.queue.shutdown() {
		return nil
	}
	<-r.stopped
	if err := r.rdb.Close(); err != nil {
		return fmt.Errorf("toggleevents: redis close: %w", err)
	}
	return nil
}
