package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes events as JSON, keyed by site so that all transitions of
// one site land on the same partition in order.
type Kafka struct {
	w     messageWriter
	topic string
	log   *zap.Logger
}

// NewKafka returns nil when no brokers are configured.
func NewKafka(brokers []string, topic string, log *zap.Logger) *Kafka {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Kafka{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topic: topic,
		log:   log.With(zap.String("component", "kafka.producer"), zap.String("topic", topic)),
	}
}

func (k *Kafka) Notify(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, span := otel.Tracer("notify.kafka").Start(ctx, "kafka.produce "+k.topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", k.topic),
			attribute.String("uptime.site", e.Site),
		),
	)
	defer span.End()

	if err := k.w.WriteMessages(ctx, kafka.Message{Key: []byte(e.Site), Value: value}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("kafka write: %w", err)
	}
	k.log.Debug("transition_published", zap.String("site", e.Site), zap.Int("value_len", len(value)))
	return nil
}

func (k *Kafka) Close() error { return k.w.Close() }
