// Package kafka publishes committed ledger transactions to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/bizledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/bizledger_app/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// EventTypeTransactionPosted is set as the event-type header of every message.
const EventTypeTransactionPosted = "ledger.transaction.posted"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// LedgerPublisher writes one message per committed transaction, keyed by company
// so that a company's transactions stay ordered within a partition.
type LedgerPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

var _ portssvc.LedgerEventPublisher = (*LedgerPublisher)(nil)

// NewLedgerPublisher creates a publisher writing to topic on brokers.
func NewLedgerPublisher(brokers []string, topic string, logger *slog.Logger) *LedgerPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Compression:  kafka.Snappy,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}
	return &LedgerPublisher{writer: writer, logger: logger}
}

func (p *LedgerPublisher) PublishTransactions(ctx context.Context, events []domain.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encoding ledger event %d: %w", event.TransactionID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.CompanyID),
			Value: value,
			Time:  event.PostedAt,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(EventTypeTransactionPosted)},
				{Key: "transaction-id", Value: []byte(strconv.FormatInt(event.TransactionID, 10))},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("writing %d ledger events: %w", len(msgs), err)
	}
	p.logger.Debug("Ledger events published", slog.Int("count", len(msgs)))
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *LedgerPublisher) Close() error {
	return p.writer.Close()
}
