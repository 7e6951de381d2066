package audit

import (
	"context"
	"errors"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKafkaWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeKafkaWriter) Close() error { return nil }

func TestKafkaQueue_PublishesKeyedByKind(t *testing.T) {
	w := &fakeKafkaWriter{}
	q := NewKafkaQueueWithWriter(w)

	err := q.Enqueue(context.Background(), NewEntry(KindHistoryError, map[string]string{"code": "chain-77"}))
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, KindHistoryError, string(w.msgs[0].Key))
	assert.Contains(t, string(w.msgs[0].Value), "chain-77")
}

func TestKafkaQueue_WriteErrorReturned(t *testing.T) {
	w := &fakeKafkaWriter{err: errors.New("broker unreachable")}
	q := NewKafkaQueueWithWriter(w)

	err := q.Enqueue(context.Background(), NewEntry(KindAuditFailure, "x"))
	assert.Error(t, err)
}
