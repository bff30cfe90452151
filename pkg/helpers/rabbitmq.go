package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublishNacked is returned when the broker refuses a published message.
var ErrPublishNacked = errors.New("amqp: broker nacked message")

// RabbitQueue owns one connection and channel bound to a durable queue.
// Publishing runs in confirm mode; PublishJSON returns once the broker has
// taken the message.
type RabbitQueue struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	Queue string
}

// DialRabbitQueue connects, declares queue and turns on publisher confirms.
func DialRabbitQueue(url, queue string) (*RabbitQueue, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	q := &RabbitQueue{conn: conn, Queue: queue}
	if q.ch, err = conn.Channel(); err != nil {
		q.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err = q.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		q.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", queue, err)
	}
	if err = q.ch.Confirm(false); err != nil {
		q.Close()
		return nil, fmt.Errorf("amqp confirm: %w", err)
	}
	return q, nil
}

func (q *RabbitQueue) Close() {
	if q == nil {
		return
	}
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

// PublishJSON encodes body and publishes it persistently to the queue.
func (q *RabbitQueue) PublishJSON(ctx context.Context, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	dc, err := q.ch.PublishWithDeferredConfirmWithContext(ctx, "", q.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		return err
	}
	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}

// Consume starts manual-ack delivery with at most prefetch unacked messages.
func (q *RabbitQueue) Consume(prefetch int) (<-chan amqp.Delivery, error) {
	if err := q.ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}
	return q.ch.Consume(q.Queue, "", false, false, false, false, nil)
}
