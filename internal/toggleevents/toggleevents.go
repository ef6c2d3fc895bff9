// Package toggleevents publishes layer toggle events to a diagnostic sink.
// Events are fire-and-forget; nothing reads them back.
package toggleevents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/parkmap/internal/core/config"
)

type Event struct {
	Park        string          `json:"park"`
	Layer       string          `json:"layer,omitempty"`
	On          bool            `json:"on"`
	Trigger     string          `json:"trigger"`
	State       map[string]bool `json:"state"`
	Overlays    int             `json:"overlays"`
	Annotations int             `json:"annotations"`
	Cell        string          `json:"cell,omitempty"`
	TS          time.Time       `json:"ts"`
}

// Sink must not block the caller; implementations drop when their queue is full.
type Sink interface {
	Publish(ev Event)
	Close() error
}

type Noop struct{}

func (Noop) Publish(Event) {}
func (Noop) Close() error  { return nil }

// New picks a sink from cfg.Driver: kafka, redis or none.
func New(ctx context.Context, cfg config.EventsCfg, logger *slog.Logger) (Sink, error) {
	switch cfg.Driver {
	case "", "none", "noop":
		return Noop{}, nil
	case "kafka":
		return NewKafka(cfg.BrokerList(), cfg.Topic, cfg.QueueSize, logger)
	case "redis":
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisStream, cfg.QueueSize, logger)
	default:
		return nil, fmt.Errorf("toggleevents: unknown driver %q", cfg.Driver)
	}
}
