// Package events publishes domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mannadome_backend/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InquiryCreated is the body of an "inquiry.created" message.
type InquiryCreated struct {
	InquiryID   string    `json:"inquiry_id"`
	PropertyID  *string   `json:"property_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	InquiryType string    `json:"inquiry_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewInquiryCreated(inq *model.Inquiry) InquiryCreated {
	return InquiryCreated{
		InquiryID:   inq.ID,
		PropertyID:  inq.PropertyID,
		FullName:    inq.FullName,
		Email:       inq.Email,
		InquiryType: inq.InquiryType,
		CreatedAt:   inq.CreatedAt,
	}
}

type Publisher interface {
	PublishInquiryCreated(ctx context.Context, event InquiryCreated) error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishInquiryCreated(context.Context, InquiryCreated) error { return nil }

// AMQPPublisher dials lazily and reuses the connection until it breaks.
type AMQPPublisher struct {
	url   string
	queue string
	log   *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queue string, log *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, queue: queue, log: log}
}

func (p *AMQPPublisher) PublishInquiryCreated(ctx context.Context, event InquiryCreated) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("publish %s: %w", p.queue, err)
	}
	return nil
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	p.conn, p.ch = conn, ch
	p.log.Info("connected to broker", "queue", p.queue)
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}
