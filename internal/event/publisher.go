package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

var ErrClosed = errors.New("event publisher is closed")

// EventPublisher publishes funnel events to a RabbitMQ topic exchange, using
// the event type as routing key.
type EventPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	source   string
	logger   *slog.Logger
	now      func() time.Time
}

func NewEventPublisher(amqpURL, exchange, source string, logger *slog.Logger) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		source:   source,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (p *EventPublisher) Publish(eventType string, payload interface{}) error {
	msg, err := buildPublishing(eventType, p.source, payload, p.now())
	if err != nil {
		return err
	}

	p.logger.Debug("publishing event", "type", eventType, "message_id", msg.MessageId)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return ErrClosed
	}
	if err := p.channel.Publish(p.exchange, eventType, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.conn = nil
	}
	return firstErr
}

func buildPublishing(eventType, source string, payload interface{}, now time.Time) (amqp.Publishing, error) {
	env := Envelope{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: now.UTC(),
		Payload:   payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.Timestamp,
		Type:         eventType,
		AppId:        source,
		Body:         body,
	}, nil
}
