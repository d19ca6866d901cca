package producer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"markpedia-os/internal/messaging/kafka"
	kafkaMock "markpedia-os/internal/messaging/kafka/mock"
	"markpedia-os/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	written []kafkago.Message
	failFor map[string]error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err, ok := w.failFor[string(m.Key)]; ok {
			return err
		}
		w.written = append(w.written, m)
	}
	return nil
}

func outboxEvent(id, aggregateID string, retries int) kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            id,
		RequestID:     "rid-" + id,
		AggregateType: "leave_request",
		AggregateID:   aggregateID,
		EventType:     "leave_status_changed",
		Topic:         "hr.leave.lifecycle.v1",
		Payload:       []byte(`{}`),
		Status:        kafka.OutboxStatusProcessing,
		RetryCount:    retries,
	}
}

func headerValue(m kafkago.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProcessBatch(t *testing.T) {
	ctx := context.Background()
	cfg := producer.WorkerConfig{BatchSize: 10, Lease: 30 * time.Second, MaxAttempts: 3}

	t.Run("publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ClaimBatch(ctx, 10, 30*time.Second).Return([]kafka.OutboxEvent{
			outboxEvent("e1", "leave-1", 0),
			outboxEvent("e2", "leave-2", 0),
		}, nil)
		repo.EXPECT().MarkSent(ctx, "e1").Return(nil)
		repo.EXPECT().MarkSent(ctx, "e2").Return(nil)

		sent, err := producer.ProcessBatch(ctx, repo, writer, zap.NewNop(), cfg)

		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, writer.written, 2)
		msg := writer.written[0]
		assert.Equal(t, "hr.leave.lifecycle.v1", msg.Topic)
		assert.Equal(t, "leave-1", string(msg.Key))
		assert.Equal(t, "leave_status_changed", headerValue(msg, "event_type"))
		assert.Equal(t, "rid-e1", headerValue(msg, "request_id"))
		assert.Equal(t, "e1", headerValue(msg, "outbox_id"))
	})

	t.Run("failed publish is recorded and the batch continues", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{failFor: map[string]error{"leave-1": errors.New("leader not available")}}

		repo.EXPECT().ClaimBatch(ctx, 10, 30*time.Second).Return([]kafka.OutboxEvent{
			outboxEvent("e1", "leave-1", 2),
			outboxEvent("e2", "leave-2", 0),
		}, nil)
		repo.EXPECT().MarkFailed(ctx, "e1", "leader not available", 3).Return(nil)
		repo.EXPECT().MarkSent(ctx, "e2").Return(nil)

		sent, err := producer.ProcessBatch(ctx, repo, writer, zap.NewNop(), cfg)

		require.NoError(t, err)
		assert.Equal(t, 1, sent)
	})

	t.Run("empty batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		repo.EXPECT().ClaimBatch(ctx, 50, time.Minute).Return(nil, nil)

		sent, err := producer.ProcessBatch(ctx, repo, &fakeWriter{}, zap.NewNop(), producer.WorkerConfig{})

		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("claim error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		dbErr := errors.New("db down")
		repo.EXPECT().ClaimBatch(ctx, 10, 30*time.Second).Return(nil, dbErr)

		_, err := producer.ProcessBatch(ctx, repo, &fakeWriter{}, zap.NewNop(), cfg)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestProcessOutboxEvents_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	repo.EXPECT().ClaimBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		producer.ProcessOutboxEvents(ctx, repo, &fakeWriter{}, zap.NewNop(), producer.WorkerConfig{PollInterval: 5 * time.Millisecond})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
