// Package rabbitmq publishes order status changes to a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/order"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	routingKeyPrefix = "order.status."

	// DefaultConfirmTimeout bounds the wait for a broker confirm when the
	// caller's context has no earlier deadline.
	DefaultConfirmTimeout = 5 * time.Second

	confirmBuffer = 64
)

var (
	ErrPublishNacked  = errors.New("publish NACK from broker")
	ErrConfirmsClosed = errors.New("confirm channel closed")
)

// StatusChangedMessage is the JSON body of every published event.
type StatusChangedMessage struct {
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	CourierID  *string   `json:"courierId"`
	OccurredAt time.Time `json:"occurredAt"`
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	GetNextPublishSeqNo() uint64
	Close() error
}

// Publisher implements ports.Notifier on top of a confirm-mode channel.
// Publishes are serialized so that each one can wait for its own confirm.
// Confirms are matched by delivery tag: a confirm left behind by a publish
// whose wait timed out is discarded by the next publish.
type Publisher struct {
	conn           *amqp.Connection
	ch             channel
	acks           <-chan amqp.Confirmation
	exchange       string
	confirmTimeout time.Duration
	mu             sync.Mutex
}

// Dial connects, declares a durable topic exchange and enables publisher
// confirms. A non-positive confirmTimeout means DefaultConfirmTimeout.
func Dial(url, exchange string, confirmTimeout time.Duration) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))

	p := newPublisher(ch, acks, exchange, confirmTimeout)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, acks <-chan amqp.Confirmation, exchange string, confirmTimeout time.Duration) *Publisher {
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	return &Publisher{ch: ch, acks: acks, exchange: exchange, confirmTimeout: confirmTimeout}
}

// Notify publishes the event and waits for its own broker confirm, ctx or
// the confirm timeout, whichever comes first.
func (p *Publisher) Notify(ctx context.Context, event order.StatusChanged) error {
	body, err := json.Marshal(NewStatusChangedMessage(event))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	defer cancel()

	tag := p.ch.GetNextPublishSeqNo()
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(event.Status), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		MessageId:    event.OrderID.String(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}); err != nil {
		return fmt.Errorf("publish order %s: %w", event.OrderID, err)
	}

	return p.awaitConfirm(ctx, tag)
}

func (p *Publisher) awaitConfirm(ctx context.Context, tag uint64) error {
	for {
		select {
		case conf, ok := <-p.acks:
			if !ok {
				return ErrConfirmsClosed
			}
			if conf.DeliveryTag < tag {
				continue
			}
			if conf.Ack {
				return nil
			}
			return ErrPublishNacked
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Ping reports whether the connection is still open.
func (p *Publisher) Ping() error {
	if p.conn == nil || p.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// RoutingKey is "order.status." followed by the lowercased status name,
// e.g. order.status.outfordelivery.
func RoutingKey(status order.Status) string {
	return routingKeyPrefix + strings.ToLower(status.String())
}

func NewStatusChangedMessage(event order.StatusChanged) StatusChangedMessage {
	msg := StatusChangedMessage{
		OrderID:    event.OrderID.String(),
		Status:     event.Status.String(),
		OccurredAt: event.OccurredAt,
	}
	if event.CourierID != nil {
		id := event.CourierID.String()
		msg.CourierID = &id
	}
	return msg
}
