package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher dials the broker for every message.
type Publisher struct {
	url string
	log *zap.SugaredLogger
}

func NewPublisher(url string, log *zap.SugaredLogger) *Publisher {
	return &Publisher{url: url, log: log}
}

// PublishBillPaid does nothing when no broker URL is configured.
func (p *Publisher) PublishBillPaid(ctx context.Context, event BillPaidEvent) error {
	if p.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		BillPaidQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", BillPaidQueue, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	p.log.Debugw("Published bill event", "queue", BillPaidQueue, "billID", event.BillID)
	return nil
}
