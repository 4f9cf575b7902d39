// Package queue publishes the automation queue document to Kafka.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"procurement-dashboard/internal/model"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends one message per refresh run, keyed by run ID.
type Publisher struct {
	topic  string
	writer MessageWriter
	log    *slog.Logger
}

// NewPublisher creates a synchronous writer for topic on brokers.
func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}
	return NewPublisherWithWriter(topic, w, log)
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(topic string, w MessageWriter, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		topic:  topic,
		writer: w,
		log:    log.With(slog.String("component", "queue-publisher")),
	}
}

// Topic returns the destination topic.
func (p *Publisher) Topic() string { return p.topic }

// Publish writes doc as JSON.
func (p *Publisher) Publish(ctx context.Context, key string, doc model.QueueDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode queue document: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", p.topic, err)
	}
	p.log.Info("queue document published", "topic", p.topic, "key", key,
		"pending_poas", doc.PendingPOAs, "pending_releases", doc.PendingReleases)
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
