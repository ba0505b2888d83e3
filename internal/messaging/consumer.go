package messaging

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var consumerTracer = otel.Tracer("messaging/consumer")

// Delivery is one consumed message as seen by a handler.
type Delivery struct {
	Key       string
	Value     []byte
	EventID   string
	EventType string
	Partition int
	Offset    int64
}

func newDelivery(msg *kafka.Message) Delivery {
	return Delivery{
		Key:       string(msg.Key),
		Value:     msg.Value,
		EventID:   header(msg, HeaderEventID),
		EventType: header(msg, HeaderEventType),
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
}

type HandlerFunc func(ctx context.Context, d Delivery) error

// messageReader is the part of *kafka.Reader the consumer loop drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader     messageReader
	topic      string
	groupID    string
	eventTypes []string
	logger     *slog.Logger
}

type consumerSettings struct {
	reader     kafka.ReaderConfig
	eventTypes []string
	logger     *slog.Logger
}

type ConsumerOption func(*consumerSettings)

func WithStartOffset(offset int64) ConsumerOption {
	return func(s *consumerSettings) {
		s.reader.StartOffset = offset
	}
}

// WithEventTypes restricts the handler to messages whose event-type header is
// one of types. Other typed messages are committed without reaching the
// handler; messages with no event-type header are always delivered.
func WithEventTypes(types ...string) ConsumerOption {
	return func(s *consumerSettings) {
		s.eventTypes = append(s.eventTypes, types...)
	}
}

func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(s *consumerSettings) {
		s.logger = logger
	}
}

func NewConsumer(brokers []string, topic, groupID string, opts ...ConsumerOption) *Consumer {
	settings := consumerSettings{
		reader: kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		},
	}
	for _, opt := range opts {
		opt(&settings)
	}

	return newConsumer(kafka.NewReader(settings.reader), topic, groupID, settings)
}

func newConsumer(reader messageReader, topic, groupID string, settings consumerSettings) *Consumer {
	logger := settings.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Consumer{
		reader:     reader,
		topic:      topic,
		groupID:    groupID,
		eventTypes: settings.eventTypes,
		logger:     logger,
	}
}

// Consume hands every accepted message to handler and commits it only once
// handler succeeds. It returns the first handler, reader or commit error.
func (c *Consumer) Consume(ctx context.Context, handler HandlerFunc) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.processMessage(ctx, msg, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

func (c *Consumer) accepts(eventType string) bool {
	return eventType == "" || len(c.eventTypes) == 0 || slices.Contains(c.eventTypes, eventType)
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message, handler HandlerFunc) error {
	d := newDelivery(&msg)
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, NewMessageCarrier(&msg))

	spanCtx, span := consumerTracer.Start(parentCtx, "process "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("process"),
			semconv.MessagingOperationTypeDeliver,
			semconv.MessagingDestinationName(c.topic),
			semconv.MessagingKafkaConsumerGroup(c.groupID),
			semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
			semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
			semconv.MessagingKafkaMessageKey(d.Key),
			semconv.MessagingMessageID(d.EventID),
			attribute.String("messaging.event_type", d.EventType),
		),
	)
	defer span.End()

	if !c.accepts(d.EventType) {
		span.AddEvent("skipped unexpected event type")
		c.logger.Warn("skipping unexpected event type",
			"event_type", d.EventType, "event_id", d.EventID, "topic", c.topic, "offset", d.Offset)
		return nil
	}

	if err := handler(spanCtx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("message handler failed",
			"error", err, "event_id", d.EventID, "topic", c.topic, "offset", d.Offset)
		return err
	}

	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
