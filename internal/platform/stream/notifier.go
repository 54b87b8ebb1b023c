// Package stream publishes collection-changed events over AMQP so other
// sessions of the same user can re-pull their data after a mutation.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/rabbitmq/amqp091-go"
)

// changeEvent is the wire payload for a collection-changed notification.
type changeEvent struct {
	UserID      string    `json:"userID"`
	Collections []string  `json:"collections"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Notifier publishes change events to a topic exchange. Routing keys are
// "<userID>.<collection>" so a client can bind to just its own user ID.
type Notifier struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	logger       *slog.Logger
}

var _ portssvc.ChangeNotifier = (*Notifier)(nil)

// NewNotifier dials the broker and declares the topic exchange.
func NewNotifier(url, exchangeName string, logger *slog.Logger) (*Notifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Notifier{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		logger:       logger,
	}, nil
}

// CollectionChanged publishes one event per collection. Failures are logged
// and swallowed: the mutation has already committed and must not be undone
// by a broker hiccup.
func (n *Notifier) CollectionChanged(ctx context.Context, userID string, collections ...portssvc.Collection) {
	if len(collections) == 0 {
		return
	}

	names := make([]string, len(collections))
	for i, col := range collections {
		names[i] = string(col)
	}

	body, err := json.Marshal(changeEvent{
		UserID:      userID,
		Collections: names,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		n.logger.Error("failed to marshal change event", slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for _, name := range names {
		err := n.channel.PublishWithContext(
			ctx,
			n.exchangeName,
			userID+"."+name, // routing key
			false,           // mandatory
			false,           // immediate
			amqp091.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp091.Transient,
				Timestamp:    time.Now(),
				Body:         body,
			},
		)
		if err != nil {
			n.logger.Warn("failed to publish change event",
				slog.String("user_id", userID),
				slog.String("collection", name),
				slog.String("error", err.Error()))
		}
	}
}

// Close shuts down the channel and connection.
func (n *Notifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// NopNotifier is used when no broker is configured. Events are dropped.
type NopNotifier struct{}

var _ portssvc.ChangeNotifier = NopNotifier{}

func (NopNotifier) CollectionChanged(context.Context, string, ...portssvc.Collection) {}
