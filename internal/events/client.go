// Package events publishes ledger notifications to AMQP and consumes them in
// the archive worker. Publishing is best-effort: the ledger never fails an
// operation because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"gamebank/internal/core"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishTransactionRecorded publishes a transaction.recorded event.
func (c *Client) PublishTransactionRecorded(ctx context.Context, sessionID string, tx core.Transaction, currency core.Currency) error {
	msg := TransactionRecordedMessage{
		SessionID:     sessionID,
		TransactionID: tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		Currency:      currency,
		RecordedAt:    tx.Timestamp,
	}
	return c.publish(ctx, EventTransactionRecorded, msg)
}

// PublishSessionEnded publishes a session.ended event with final standings.
func (c *Client) PublishSessionEnded(ctx context.Context, msg SessionEndedMessage) error {
	return c.publish(ctx, EventSessionEnded, msg)
}

func (c *Client) publish(ctx context.Context, event string, payload any) error {
	body, err := wrap(event, payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}

	slog.InfoContext(ctx, "Published ledger event",
		"event", event,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeEvents delivers parsed events to the given handlers until the
// context is canceled. A handler error nacks and requeues the delivery; a
// malformed body is dropped.
func (c *Client) ConsumeEvents(
	ctx context.Context,
	onTransaction func(context.Context, *TransactionRecordedMessage) error,
	onSessionEnded func(context.Context, *SessionEndedMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, delivery, onTransaction, onSessionEnded)
		}
	}
}

func (c *Client) dispatch(
	ctx context.Context,
	delivery amqp091.Delivery,
	onTransaction func(context.Context, *TransactionRecordedMessage) error,
	onSessionEnded func(context.Context, *SessionEndedMessage) error,
) {
	env, err := ParseEnvelope(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse event envelope", "error", err)
		delivery.Nack(false, false) // reject and don't requeue
		return
	}

	var handlerErr error
	switch env.Event {
	case EventTransactionRecorded:
		var msg TransactionRecordedMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			slog.ErrorContext(ctx, "Failed to parse transaction event", "error", err)
			delivery.Nack(false, false)
			return
		}
		if onTransaction != nil {
			handlerErr = onTransaction(ctx, &msg)
		}
	case EventSessionEnded:
		var msg SessionEndedMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			slog.ErrorContext(ctx, "Failed to parse session event", "error", err)
			delivery.Nack(false, false)
			return
		}
		if onSessionEnded != nil {
			handlerErr = onSessionEnded(ctx, &msg)
		}
	default:
		slog.WarnContext(ctx, "Unknown event, dropping", "event", env.Event)
		delivery.Nack(false, false)
		return
	}

	if handlerErr != nil {
		slog.ErrorContext(ctx, "Failed to handle event",
			"event", env.Event, "error", handlerErr)
		delivery.Nack(false, true) // reject and requeue
		return
	}
	delivery.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
