package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Rohinijk/travel-glide-tickets-online/internal/domain"
)

// Queues are named after the event type they carry and published through
// the default exchange.
var queues = []string{
	domain.EventReservationConfirmed,
	domain.EventReservationCancelled,
}

// Publisher sends reservation events to RabbitMQ as persistent JSON
// messages. A single channel is shared and guarded by a mutex.
type Publisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	const op = "queue.NewPublisher"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	for _, name := range queues {
		if _, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("%s: declare %s: %w", op, name, err)
		}
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, ev domain.ReservationEvent) error {
	const op = "queue.Publisher.Publish"

	msg, err := Encode(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx,
		"",      // default exchange
		ev.Type, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_ = p.ch.Close()

	return p.conn.Close()
}

// Encode builds the AMQP message for ev.
func Encode(ev domain.ReservationEvent) (amqp.Publishing, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Unix(ev.TsUnix, 0).UTC(),
		Type:         ev.Type,
		MessageId:    ev.ReservationID,
		Body:         b,
	}, nil
}
