package stream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
)

type SubscriberTestSuite struct {
	suite.Suite
	logger *slog.Logger
}

func (suite *SubscriberTestSuite) SetupTest() {
	suite.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (suite *SubscriberTestSuite) delivery(event changeEvent) amqp091.Delivery {
	body, err := json.Marshal(event)
	suite.Require().NoError(err)
	return amqp091.Delivery{Body: body}
}

func (suite *SubscriberTestSuite) TestConsumeEvents_DeliversDecodedEvents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs := make(chan amqp091.Delivery, 3)
	msgs <- suite.delivery(changeEvent{UserID: "u1", Collections: []string{"accounts"}})
	msgs <- amqp091.Delivery{Body: []byte("{not json")}
	msgs <- suite.delivery(changeEvent{UserID: "u1", Collections: []string{"transactions", "cards"}})

	var got []ChangeEvent
	err := consumeEvents(ctx, msgs, suite.logger, func(event ChangeEvent) {
		got = append(got, event)
		if len(got) == 2 {
			cancel()
		}
	})

	suite.ErrorIs(err, context.Canceled)
	suite.Require().Len(got, 2, "undecodable bodies are skipped")
	suite.Equal("u1", got[0].UserID)
	suite.Equal([]string{"accounts"}, got[0].Collections)
	suite.Equal([]string{"transactions", "cards"}, got[1].Collections)
}

func (suite *SubscriberTestSuite) TestConsumeEvents_StopsOnCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := consumeEvents(ctx, make(chan amqp091.Delivery), suite.logger, func(ChangeEvent) {
		suite.FailNow("no events were delivered")
	})

	suite.ErrorIs(err, context.Canceled)
}

func (suite *SubscriberTestSuite) TestConsumeEvents_ErrorsWhenChannelCloses() {
	msgs := make(chan amqp091.Delivery, 1)
	msgs <- suite.delivery(changeEvent{UserID: "u1", Collections: []string{"memos"}})
	close(msgs)

	var got []ChangeEvent
	err := consumeEvents(context.Background(), msgs, suite.logger, func(event ChangeEvent) {
		got = append(got, event)
	})

	suite.Require().Error(err)
	suite.Contains(err.Error(), "closed")
	suite.Len(got, 1, "buffered deliveries still arrive before the close is seen")
}

func TestSubscriberTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriberTestSuite))
}
