package connectors

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"melidash/pkg/logx"
)

type Kafka struct {
	value        *kafka.Writer
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	init         sync.Once
}

// Writer returns an async-safe writer; kafka-go dials lazily on first write.
func (k *Kafka) Writer(ctx context.Context) *kafka.Writer {
	k.init.Do(func() {
		k.value = &kafka.Writer{
			//nolint:exhaustruct
			Addr:                   kafka.TCP(k.Brokers...),
			Topic:                  k.Topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           k.BatchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		}

		logger(ctx).Info(
			"kafka writer configured",
			slog.String("brokers", strings.Join(k.Brokers, ",")),
			slog.String("topic", k.Topic),
		)
	})

	return k.value
}

func (k *Kafka) Close(ctx context.Context) {
	if k.value == nil {
		return
	}

	if err := k.value.Close(); err != nil {
		logger(ctx).Error("kafkaWriter.Close", logx.Error(err))
	}

	logger(ctx).Info("kafka writer closed", slog.String("topic", k.Topic))
}
