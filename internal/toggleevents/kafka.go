package toggleevents

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/parkmap/internal/core/observability"
)

const defaultQueue = 256

type Kafka struct {
	topic   string
	queue   *queue
	prod    sarama.AsyncProducer
	logger  *slog.Logger
	stopped chan struct{}
}

func NewKafka(brokers []string, topic string, queueSize int, logger *slog.Logger) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("toggleevents: create async producer: %w", err)
	}
	return NewKafkaWithProducer(prod, topic, queueSize, logger), nil
}

// NewKafkaWithProducer takes ownership of prod.
func NewKafkaWithProducer(prod sarama.AsyncProducer, topic string, queueSize int, logger *slog.Logger) *Kafka {
	if logger == nil {
		logger = slog.Default()
	}
	k := &Kafka{
		topic:   topic,
		queue:   newQueue("kafka", queueSize),
		prod:    prod,
		logger:  logger,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(k.stopped)
		for ev := range k.queue.events {
			b, err := json.Marshal(ev)
			if err != nil {
				k.logger.Warn("toggle event marshal failed", "err", err)
				continue
			}
			k.prod.Input() <- &sarama.ProducerMessage{
				Topic: k.topic,
				Key:   sarama.StringEncoder(ev.Park),
				Value: sarama.ByteEncoder(b),
			}
		}
	}()

	go func() {
		for err := range k.prod.Errors() {
			if err != nil {
				observability.IncEventDropped("kafka", "producer_error")
				k.logger.Warn("toggle event producer error", "err", err)
			}
		}
	}()

	return k
}

func (k *Kafka) Publish(ev Event) { k.queue.put(ev) }

// Close flushes queued events and closes the producer. Later calls are no-ops.
func (k *Kafka) Close() error {
	if !k.queue.shutdown() {
		return nil
	}
	<-k.stopped
	if err := k.prod.Close(); err != nil {
		return fmt.Errorf("toggleevents: close producer: %w", err)
	}
	return nil
}
