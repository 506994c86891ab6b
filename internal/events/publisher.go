package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/npiscopo/cinerent/internal/domain"
)

// TransactionEvent is emitted after every committed deposit or debit.
type TransactionEvent struct {
	TransactionID string          `json:"transactionId"`
	OwnerID       string          `json:"ownerId"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher streams ledger transactions to Kafka. A Publisher built without
// brokers is a no-op, so callers never branch on whether events are enabled.
type Publisher struct {
	writer Writer
}

func New(brokers, topic string) *Publisher {
	if brokers == "" {
		return &Publisher{}
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) PublishTransaction(ctx context.Context, entry domain.LedgerEntry, newBalance decimal.Decimal) error {
	if p.writer == nil {
		return nil
	}

	event := TransactionEvent{
		TransactionID: entry.ID,
		OwnerID:       entry.OwnerID,
		Kind:          entry.Kind,
		Amount:        entry.Amount,
		NewBalance:    newBalance,
		OccurredAt:    entry.OccurredAt,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("can't marshal transaction event: %w", err)
	}

	// keyed by owner so one account's transactions stay ordered per partition
	msg := kafka.Message{
		Key:   []byte(entry.OwnerID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("can't write transaction event: %w", err)
	}

	zap.L().Debug("published transaction event", zap.String("transactionID", entry.ID))
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
