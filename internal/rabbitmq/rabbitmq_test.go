package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConfirmation struct {
	done chan struct{}
	ack  bool
}

func (f *fakeConfirmation) resolve(ack bool) {
	f.ack = ack
	close(f.done)
}

func (f *fakeConfirmation) WaitContext(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-f.done:
	}
	return f.ack, nil
}

// fakeBroker hands out one confirmation per publishing, in order.
type fakeBroker struct {
	mu    sync.Mutex
	sent  []amqp.Publishing
	keys  []string
	confs []*fakeConfirmation
	err   error
}

func (b *fakeBroker) publish(_ context.Context, _, key string, msg amqp.Publishing) (confirmation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	c := &fakeConfirmation{done: make(chan struct{})}
	b.sent = append(b.sent, msg)
	b.keys = append(b.keys, key)
	b.confs = append(b.confs, c)
	return c, nil
}

func (b *fakeBroker) conf(i int) *fakeConfirmation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.confs[i]
}

// answer resolves publishing i as soon as it has been sent.
func (b *fakeBroker) answer(i int, ack bool) {
	go func() {
		for {
			b.mu.Lock()
			n := len(b.confs)
			b.mu.Unlock()
			if n > i {
				b.conf(i).resolve(ack)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func TestPublish_AckAndNack(t *testing.T) {
	b := &fakeBroker{}
	c := &Client{publish: b.publish}
	ctx := context.Background()

	b.answer(0, true)
	require.NoError(t, c.Publish(ctx, "kitchen", "kitchen.ticket.dine_in", []byte("a"), amqp.Table{"x-order-id": "o1"}, "application/json", true))

	b.answer(1, false)
	err := c.Publish(ctx, "kitchen", "kitchen.ticket.takeaway", []byte("b"), nil, "application/json", false)
	assert.ErrorIs(t, err, ErrNack)

	require.Len(t, b.sent, 2)
	assert.Equal(t, amqp.Persistent, b.sent[0].DeliveryMode)
	assert.Equal(t, amqp.Transient, b.sent[1].DeliveryMode)
	assert.Equal(t, "o1", b.sent[0].Headers["x-order-id"])
	assert.Equal(t, []string{"kitchen.ticket.dine_in", "kitchen.ticket.takeaway"}, b.keys)
}

func TestPublish_LateAckIsNotCreditedToTheNextMessage(t *testing.T) {
	b := &fakeBroker{}
	c := &Client{publish: b.publish}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Publish(ctx, "kitchen", "kitchen.ticket.dine_in", []byte("first"), nil, "application/json", true)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The first message is confirmed only after its caller gave up.
	b.conf(0).resolve(true)

	b.answer(1, false)
	err = c.Publish(context.Background(), "kitchen", "kitchen.ticket.dine_in", []byte("second"), nil, "application/json", true)
	assert.ErrorIs(t, err, ErrNack)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = c.Publish(ctx, "kitchen", "kitchen.ticket.dine_in", []byte("third"), nil, "application/json", true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPublish_ChannelError(t *testing.T) {
	boom := errors.New("channel closed")
	c := &Client{publish: (&fakeBroker{err: boom}).publish}

	err := c.Publish(context.Background(), "kitchen", "k", nil, nil, "text/plain", false)

	assert.ErrorIs(t, err, boom)
}

func TestPing_ClosedClient(t *testing.T) {
	assert.Error(t, (&Client{}).Ping())
}
