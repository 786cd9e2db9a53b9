// Package service publishes domain events to RabbitMQ. Publishing is
// best-effort: errors are logged and returned so callers may ignore them.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	q "github.com/iliyamo/liftpass/internal/queue"
)

// PricePublisher announces base price changes.
type PricePublisher interface {
	PublishBasePriceChanged(ctx context.Context, ev q.BasePriceChangedEvent) error
}

// NopPublisher drops every event. Used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) PublishBasePriceChanged(context.Context, q.BasePriceChangedEvent) error {
	return nil
}

// AMQPPublisher dials the broker per event; price changes are rare admin
// actions.
type AMQPPublisher struct {
	URL string
}

// PublishBasePriceChanged publishes ev to PriceChangedQueue as a persistent
// JSON message.
func (p *AMQPPublisher) PublishBasePriceChanged(ctx context.Context, ev q.BasePriceChangedEvent) error {
	logger := zerolog.Ctx(ctx)

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; the consumer declares the same durable queue.
	if _, err := ch.QueueDeclare(
		q.PriceChangedQueue, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                  // default exchange
		q.PriceChangedQueue, // routing key = queue name
		false,               // mandatory
		false,               // immediate
		pub,
	); err != nil {
		logger.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}
