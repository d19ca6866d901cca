package consumer

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// errSkip marks a message that can never be processed. It is committed so
// it does not block the partition.
var errSkip = errors.New("skip message")

type handlerFunc func(ctx context.Context, msg kafkago.Message) error

// run fetches until ctx is cancelled. A message is committed when the handler
// succeeds or returns errSkip; any other error leaves it uncommitted so the
// group redelivers it after a rebalance or restart.
func run(ctx context.Context, reader MessageReader, log *zap.Logger, handle handlerFunc) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.String("request_id", header(msg, "request_id")),
		}

		if err := handle(ctx, msg); err != nil {
			if !errors.Is(err, errSkip) {
				log.Error("handle message failed", append(fields, zap.Error(err))...)
				continue
			}
			log.Warn("skipping message", append(fields, zap.Error(err))...)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", append(fields, zap.Error(err))...)
		}
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
