package rabbitmq

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNack = errors.New("publish NACK from broker")

// confirmation is the broker's answer to one publishing.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)

// Client holds one connection and one confirm-mode channel.
type Client struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	publish publishFunc
}

func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch, publish: deferredPublish(ch)}, nil
}

// deferredPublish ties each publishing to its own delivery tag, so a
// confirmation that arrives after its caller gave up is never read by the
// next publisher.
func deferredPublish(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
		dc, err := ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
		if err != nil {
			return nil, err
		}
		if dc == nil {
			return nil, errors.New("channel is not in confirm mode")
		}
		return dc, nil
	}
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

// DeclareKitchen declares the kitchen topic exchange and its durable queue.
func (c *Client) DeclareKitchen(exchange, queue string) error {
	if err := c.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := c.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(queue, "kitchen.#", exchange, false, nil)
}

// Publish sends a message and waits for the broker to confirm that exact
// message. A NACK returns ErrNack; an expired ctx returns ctx.Err().
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table, contentType string, persistent bool) error {
	mode := amqp.Transient
	if persistent {
		mode = amqp.Persistent
	}
	conf, err := c.publish(ctx, exchange, key, amqp.Publishing{
		DeliveryMode: mode,
		ContentType:  contentType,
		Timestamp:    time.Now(),
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return err
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrNack
	}
	return nil
}
