package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

const dialTimeout = 30 * time.Second

// dial connects to the broker, retrying with exponential backoff until dialTimeout elapses.
func dial(ctx context.Context, url string, logger *slog.Logger) (*amqp.Connection, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	return backoff.Retry(ctx, func() (*amqp.Connection, error) {
		return amqp.Dial(url)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(dialTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("rabbitmq dial failed", "error", err, "retry_in", next)
		}),
	)
}

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

var (
	ErrPublisherUnavailable = errors.New("rabbitmq publisher unavailable")
	ErrPublisherClosed      = errors.New("rabbitmq publisher closed")
)

// RabbitMQPublisher publishes booking events as persistent JSON messages to a durable queue.
// A dropped channel is re-established by a single background reconnect; publishers wait for
// it no longer than their own context allows.
type RabbitMQPublisher struct {
	url    string
	queue  string
	logger *slog.Logger

	mu              sync.Mutex
	conn            *amqp.Connection
	ch              *amqp.Channel
	closed          bool
	reconnecting    chan struct{}
	cancelReconnect context.CancelFunc
}

func NewRabbitMQPublisher(ctx context.Context, url, queue string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	p := &RabbitMQPublisher{
		url:    url,
		queue:  queue,
		logger: logger,
	}

	conn, ch, err := p.open(ctx)
	if err != nil {
		return nil, err
	}

	p.conn = conn
	p.ch = ch

	return p, nil
}

func (p *RabbitMQPublisher) open(ctx context.Context) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := dial(ctx, p.url, p.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = declareQueue(ch, p.queue)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue %s: %w", p.queue, err)
	}

	return conn, ch, nil
}

func (p *RabbitMQPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode booking event: %w", err)
	}

	ch, err := p.channel(ctx)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.Reference.String(),
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// channel returns an open channel, waiting for at most one reconnect attempt.
func (p *RabbitMQPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
	for attempt := 0; ; attempt++ {
		p.mu.Lock()

		if p.closed {
			p.mu.Unlock()
			return nil, ErrPublisherClosed
		}

		if p.ch != nil && !p.ch.IsClosed() {
			ch := p.ch
			p.mu.Unlock()
			return ch, nil
		}

		if attempt > 0 {
			p.mu.Unlock()
			return nil, ErrPublisherUnavailable
		}

		done := p.reconnectLocked()
		p.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrPublisherUnavailable, ctx.Err())
		}
	}
}

// reconnectLocked starts a reconnect unless one is already running and returns a channel
// that is closed when it finishes. The caller must hold p.mu.
func (p *RabbitMQPublisher) reconnectLocked() <-chan struct{} {
	if p.reconnecting != nil {
		return p.reconnecting
	}

	p.logger.Warn("rabbitmq channel closed, reconnecting")
	p.closeLocked()

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	done := make(chan struct{})

	p.reconnecting = done
	p.cancelReconnect = cancel

	go func() {
		defer close(done)
		defer cancel()

		conn, ch, err := p.open(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()

		p.reconnecting = nil
		p.cancelReconnect = nil

		if err != nil {
			p.logger.Error("rabbitmq reconnect failed", "error", err)
			return
		}

		if p.closed {
			ch.Close()
			conn.Close()
			return
		}

		p.conn = conn
		p.ch = ch
	}()

	return done
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true

	if p.cancelReconnect != nil {
		p.cancelReconnect()
	}

	return p.closeLocked()
}

func (p *RabbitMQPublisher) closeLocked() error {
	var errs []error

	if p.ch != nil && !p.ch.IsClosed() {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil && !p.conn.IsClosed() {
		errs = append(errs, p.conn.Close())
	}

	p.ch = nil
	p.conn = nil

	return errors.Join(errs...)
}

// Handler processes one booking event. A returned error sends the message back to the queue once.
type Handler func(ctx context.Context, event BookingConfirmed) error

// Consumer reads booking events with manual acknowledgements.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	logger   *slog.Logger
}

func NewConsumer(url, queue string, prefetch int, logger *slog.Logger) *Consumer {
	return &Consumer{
		url:      url,
		queue:    queue,
		prefetch: prefetch,
		logger:   logger,
	}
}

// Run consumes until ctx is cancelled, reconnecting whenever the broker drops the connection.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		err := c.consume(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Warn("consumer disconnected", "error", err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handle Handler) error {
	conn, err := dial(ctx, c.url, c.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.Qos(c.prefetch, 0, false)
	if err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	err = declareQueue(ch, c.queue)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.queue, err)
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("consuming booking events", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			return fmt.Errorf("connection closed: %v", amqpErr)
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			c.handleDelivery(ctx, d, handle)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery, handle Handler) {
	logger := c.logger.With("message_id", d.MessageId)

	var event BookingConfirmed

	err := json.Unmarshal(d.Body, &event)
	if err != nil {
		logger.Error("dropping malformed booking event", "error", err)

		if err := d.Nack(false, false); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	err = handle(ctx, event)
	if err != nil {
		requeue := !d.Redelivered
		logger.Error("failed to handle booking event", "error", err, "booking_id", event.BookingID, "requeue", requeue)

		if err := d.Nack(false, requeue); err != nil {
			logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack message", "error", err)
	}
}
