package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"
)

// ChangeEvent is the decoded form of a collection-changed notification.
type ChangeEvent struct {
	UserID      string   `json:"userID"`
	Collections []string `json:"collections"`
}

// Subscribe consumes change events for one user until ctx is cancelled.
// It declares an exclusive auto-deleted queue bound to "<userID>.*" so the
// subscription disappears with the connection.
func (n *Notifier) Subscribe(ctx context.Context, userID string, handler func(ChangeEvent)) error {
	queue, err := n.channel.QueueDeclare(
		"",    // broker-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := n.channel.QueueBind(queue.Name, userID+".*", n.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := n.channel.Consume(
		queue.Name,
		"",    // consumer tag
		true,  // auto-ack: events are advisory, losing one is fine
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	return consumeEvents(ctx, msgs, n.logger, handler)
}

// consumeEvents drains deliveries until ctx is cancelled or the delivery
// channel closes. Bodies that fail to decode are logged and skipped.
func consumeEvents(ctx context.Context, msgs <-chan amqp091.Delivery, logger *slog.Logger, handler func(ChangeEvent)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			var event ChangeEvent
			if err := json.Unmarshal(delivery.Body, &event); err != nil {
				logger.Warn("failed to decode change event", slog.String("error", err.Error()))
				continue
			}
			handler(event)
		}
	}
}
