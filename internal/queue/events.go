package queue

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const deliveryQueue = "campaign_events"

// DeliveryEvent records the outcome of one relay attempt, consumed by
// the reporting surface.
type DeliveryEvent struct {
	RunID      string    `json:"run_id"`
	CampaignID int       `json:"campaign_id"`
	ContactID  int       `json:"contact_id"`
	Channel    string    `json:"channel"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

type EventPublisher interface {
	PublishDelivery(event DeliveryEvent) error
	Close() error
}

// NoopPublisher is used when no broker is configured; dispatch does not
// depend on eventing being available.
type NoopPublisher struct{}

func (NoopPublisher) PublishDelivery(DeliveryEvent) error { return nil }
func (NoopPublisher) Close() error                        { return nil }

// AMQPPublisher pushes delivery events onto a durable queue.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open broker channel")
	}

	_, err = ch.QueueDeclare(
		deliveryQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrap(err, "failed to declare delivery queue")
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

func (p *AMQPPublisher) PublishDelivery(event DeliveryEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode delivery event")
	}

	err = p.channel.Publish(
		"",
		deliveryQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	return errors.Wrap(err, "failed to publish delivery event")
}

func (p *AMQPPublisher) Close() error {
	p.channel.Close()
	return p.conn.Close()
}

var _ EventPublisher = (*AMQPPublisher)(nil)
var _ EventPublisher = NoopPublisher{}
