package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cyverse-de/messaging/v9"
	"github.com/cyverse-de/notification-dispatcher/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultRoutingKeyPrefix is prepended to the channel name to build the routing key for each dispatch message.
const DefaultRoutingKeyPrefix = "notification.dispatch"

// AMQPSettings represents the settings that we require in order to connect to the AMQP exchange.
type AMQPSettings struct {
	URI              string
	ExchangeName     string
	RoutingKeyPrefix string
}

// messagingClient describes the functions we need from messaging.Client.
type messagingClient interface {
	Publish(key string, body []byte) error
}

// Publisher hands dispatch messages to the AMQP exchange. Each message is published once; nothing is retried.
type Publisher struct {
	client           messagingClient
	closer           func()
	routingKeyPrefix string
}

// New connects to the AMQP broker and prepares the exchange for publishing.
func New(amqpSettings *AMQPSettings) (*Publisher, error) {
	wrapMsg := "unable to create the notification publisher"

	// Create the AMQP client.
	amqpClient, err := messaging.NewClient(amqpSettings.URI, false)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	// Declare the exchange that dispatch messages are published to.
	err = amqpClient.SetupPublishing(amqpSettings.ExchangeName)
	if err != nil {
		amqpClient.Close()
		return nil, errors.Wrap(err, wrapMsg)
	}

	publisher := newPublisher(amqpClient, amqpSettings.RoutingKeyPrefix)
	publisher.closer = func() { amqpClient.Close() }
	return publisher, nil
}

func newPublisher(client messagingClient, routingKeyPrefix string) *Publisher {
	if routingKeyPrefix == "" {
		routingKeyPrefix = DefaultRoutingKeyPrefix
	}
	return &Publisher{client: client, routingKeyPrefix: routingKeyPrefix}
}

// RoutingKey returns the routing key used for messages sent on the given channel.
func (p *Publisher) RoutingKey(channel model.Channel) string {
	return fmt.Sprintf("%s.%s", p.routingKeyPrefix, channel)
}

// Publish sends a single dispatch message to the exchange.
func (p *Publisher) Publish(_ context.Context, msg *model.DispatchMessage) error {
	wrapMsg := fmt.Sprintf("unable to publish notification `%s`", msg.NotificationID)

	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if err = p.client.Publish(p.RoutingKey(msg.Type), body); err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// Close closes the connection to the AMQP broker.
func (p *Publisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// LogPublisher logs dispatch messages instead of sending them anywhere. It's used when the service runs without a
// broker.
type LogPublisher struct {
	log *logrus.Entry
}

// NewLogPublisher returns a publisher that only logs dispatch messages.
func NewLogPublisher(log *logrus.Entry) *LogPublisher {
	return &LogPublisher{log: log}
}

// Publish logs the dispatch message.
func (p *LogPublisher) Publish(_ context.Context, msg *model.DispatchMessage) error {
	p.log.WithFields(logrus.Fields{
		"notificationId": msg.NotificationID,
		"userId":         msg.UserID,
		"type":           msg.Type,
	}).Info("dispatch message not sent: no broker configured")
	return nil
}
