package audit

import (
	"context"
	"encoding/json"

	kafka "github.com/segmentio/kafka-go"
)

// Writer is the subset of kafka.Writer the queue needs, injectable in tests.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaQueue publishes entries to a Kafka topic, keyed by entry kind so
// consumers can partition audit failures apart from history errors.
type KafkaQueue struct {
	writer Writer
}

// NewKafkaQueue creates a queue writing to the given broker and topic.
func NewKafkaQueue(brokerAddr, topic string) *KafkaQueue {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokerAddr),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaQueue{writer: w}
}

// NewKafkaQueueWithWriter allows injecting a test writer.
func NewKafkaQueueWithWriter(w Writer) *KafkaQueue {
	return &KafkaQueue{writer: w}
}

func (q *KafkaQueue) Enqueue(ctx context.Context, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return q.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Kind), Value: raw})
}

// Close closes the underlying writer.
func (q *KafkaQueue) Close() error {
	return q.writer.Close()
}
