package kitchen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher is satisfied by *rabbitmq.Client.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte, headers amqp.Table, contentType string, persistent bool) error
}

// QueueRenderer hands tickets to the kitchen printer over RabbitMQ. Render
// succeeds only once the broker has confirmed the message.
type QueueRenderer struct {
	pub      Publisher
	exchange string
	timeout  time.Duration
}

func NewQueueRenderer(pub Publisher, exchange string) *QueueRenderer {
	return &QueueRenderer{pub: pub, exchange: exchange, timeout: 5 * time.Second}
}

type ticketMessage struct {
	Ticket
	Text string `json:"text"`
}

func RoutingKey(t Ticket) string {
	if t.Takeaway {
		return "kitchen.ticket.takeaway"
	}
	return "kitchen.ticket.dine_in"
}

func (r *QueueRenderer) Render(ctx context.Context, t Ticket) error {
	body, err := json.Marshal(ticketMessage{Ticket: t, Text: t.Text()})
	if err != nil {
		return fmt.Errorf("marshal ticket: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	headers := amqp.Table{
		"x-source":   "order-service",
		"x-order-id": t.OrderID,
	}
	if err := r.pub.Publish(ctx, r.exchange, RoutingKey(t), body, headers, "application/json", true); err != nil {
		return fmt.Errorf("publish ticket: %w", err)
	}
	return nil
}

// LogRenderer writes tickets to the log; used when no broker is configured.
type LogRenderer struct {
	log *zap.Logger
}

func NewLogRenderer(log *zap.Logger) *LogRenderer { return &LogRenderer{log: log} }

func (r *LogRenderer) Render(_ context.Context, t Ticket) error {
	r.log.Info("kitchen ticket",
		zap.String("order_id", t.OrderID),
		zap.String("text", t.Text()),
	)
	return nil
}
