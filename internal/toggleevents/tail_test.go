package toggleevents

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type sess struct {
	ctx    context.Context
	mu     sync.Mutex
	marked []int64
}

func (s *sess) Claims() map[string][]int32 { return nil }
func (s *sess) MemberID() string           { return "" }
func (s *sess) GenerationID() int32        { return 0 }
func (s *sess) MarkMessage(m *sarama.ConsumerMessage, _ string) {
	s.mu.Lock()
	s.marked = append(s.marked, m.Offset)
	s.mu.Unlock()
}
func (s *sess) ResetOffset(_ string, _ int32, _ int64, _ string) {}
func (s *sess) MarkOffset(_ string, _ int32, _ int64, _ string)  {}
func (s *sess) Context() context.Context                         { return s.ctx }
func (s *sess) Commit()                                          {}

type claim struct {
	msgs chan *sarama.ConsumerMessage
}

func (c *claim) Topic() string                            { return "toggles" }
func (c *claim) Partition() int32                         { return 0 }
func (c *claim) InitialOffset() int64                     { return 0 }
func (c *claim) HighWaterMarkOffset() int64               { return 0 }
func (c *claim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func eventBytes(t *testing.T, layer string) []byte {
	t.Helper()
	ev := sampleEvent()
	ev.Layer = layer
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestGroupHandler_MarksAfterHandler(t *testing.T) {
	var seen []string
	g := &groupHandler{process: messageProcessor(func(_ context.Context, ev Event) error {
		seen = append(seen, ev.Layer)
		return nil
	})}

	s := &sess{ctx: t.Context()}
	ch := make(chan *sarama.ConsumerMessage, 2)
	ch <- &sarama.ConsumerMessage{Topic: "toggles", Offset: 10, Value: eventBytes(t, "pins")}
	ch <- &sarama.ConsumerMessage{Topic: "toggles", Offset: 11, Value: eventBytes(t, "route")}
	close(ch)

	if err := g.ConsumeClaim(s, &claim{msgs: ch}); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(s.marked) != 2 || s.marked[0] != 10 || s.marked[1] != 11 {
		t.Fatalf("marked=%v want [10 11]", s.marked)
	}
	if len(seen) != 2 || seen[0] != "pins" || seen[1] != "route" {
		t.Fatalf("seen=%v", seen)
	}
}

func TestGroupHandler_DecodeFailureDoesNotMark(t *testing.T) {
	g := &groupHandler{process: messageProcessor(func(context.Context, Event) error { return nil })}
	s := &sess{ctx: t.Context()}
	ch := make(chan *sarama.ConsumerMessage, 1)
	ch <- &sarama.ConsumerMessage{Topic: "toggles", Offset: 3, Value: []byte("{not json")}
	close(ch)

	if err := g.ConsumeClaim(s, &claim{msgs: ch}); err == nil {
		t.Fatalf("want decode error")
	}
	if len(s.marked) != 0 {
		t.Fatalf("undecodable message must not be marked: %v", s.marked)
	}
}

func TestRedisTail_ReadsPublishedEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sink, err := NewRedis(ctx, mr.Addr(), "toggles", 8, quiet())
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	sink.Publish(sampleEvent())
	ev := sampleEvent()
	ev.Layer = "route"
	sink.Publish(ev)
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// an entry written by something else must be skipped
	if _, err := mr.XAdd("toggles", "*", []string{"event", "garbage"}); err != nil {
		t.Fatalf("XAdd: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	var seen []string
	tail := RedisTail{Client: rdb, Stream: "toggles", From: "0", Block: 100 * time.Millisecond, Logger: quiet()}
	err = tail.Run(runCtx, func(_ context.Context, ev Event) error {
		seen = append(seen, ev.Layer)
		if len(seen) == 2 {
			stop()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 2 || seen[0] != "pins" || seen[1] != "route" {
		t.Fatalf("seen=%v", seen)
	}
}

func TestRedisTail_HandlerErrorStops(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	b, _ := json.Marshal(sampleEvent())
	if _, err := mr.XAdd("toggles", "*", []string{"event", string(b)}); err != nil {
		t.Fatalf("XAdd: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	errStop := errors.New("stop")
	tail := RedisTail{Client: rdb, Stream: "toggles", From: "0", Logger: quiet()}
	if err := tail.Run(context.Background(), func(context.Context, Event) error { return errStop }); !errors.Is(err, errStop) {
		t.Fatalf("err=%v want errStop", err)
	}
}
