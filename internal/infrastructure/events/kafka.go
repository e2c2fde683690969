// Package events publishes pricing execution records to Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"melidash/internal/domain/entity"
)

type executionEvent struct {
	ID         string    `json:"id"`
	RuleID     string    `json:"ruleId"`
	RuleName   string    `json:"ruleName"`
	ProductID  string    `json:"productId"`
	ExecutedAt time.Time `json:"executedAt"`
	Status     string    `json:"status"`
	OldPrice   float64   `json:"oldPrice"`
	NewPrice   float64   `json:"newPrice"`
	Reason     string    `json:"reason,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// PublishExecution keys messages by product so a product's history stays
// ordered within a partition.
func (p *KafkaPublisher) PublishExecution(ctx context.Context, execution entity.PricingExecution) error {
	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(executionEvent{
		ID:         execution.ID,
		RuleID:     execution.RuleID,
		RuleName:   execution.RuleName,
		ProductID:  execution.ProductID,
		ExecutedAt: execution.ExecutedAt,
		Status:     string(execution.Status),
		OldPrice:   execution.OldPrice,
		NewPrice:   execution.NewPrice,
		Reason:     execution.Reason,
		Error:      execution.Error,
	})
	if err != nil {
		return fmt.Errorf("jsoniter.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(execution.ProductID),
		Value: payload,
		Time:  execution.ExecutedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("pricing.execution")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writer.WriteMessages: %w", err)
	}

	return nil
}
