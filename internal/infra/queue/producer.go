package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MailSentEvent is published once per confirmed send so downstream tooling
// (check-in desks, reporting) can react without polling the sheet.
type MailSentEvent struct {
	RunID              string    `json:"run_id"`
	RegistrationNumber string    `json:"registration_number"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	UniqueID           string    `json:"unique_id"`
	SentAt             time.Time `json:"sent_at"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishMailSent(ctx context.Context, event MailSentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish mail-sent event: %w", err)
	}

	return nil
}
