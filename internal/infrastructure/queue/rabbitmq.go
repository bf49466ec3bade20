package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

const (
	messageType        = "mediamind.prewarm_task"
	messageContentType = "application/json"
	deadLetterSuffix   = ".dead"
)

var (
	// ErrConnectionClosed is returned by Ping when the broker connection is gone.
	ErrConnectionClosed = errors.New("rabbitmq connection closed")
	// ErrDeliveriesClosed is returned by ConsumeProcessTasks when the broker closes the delivery channel.
	ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")
	// ErrMalformedTask marks a message whose body is not a usable prewarm task.
	ErrMalformedTask = errors.New("malformed prewarm task")
)

// ClientConfig holds configuration for the RabbitMQ client.
type ClientConfig struct {
	URL       string
	QueueName string
	// DeadLetterQueue receives malformed messages. Empty disables dead-lettering.
	DeadLetterQueue string
	// Prefetch bounds unacknowledged deliveries per worker.
	Prefetch int
}

// DefaultClientConfig returns a ClientConfig for the prewarm queue.
// Prefetch=1 gives each worker one pipeline run at a time.
func DefaultClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:             url,
		QueueName:       "prewarm_tasks",
		DeadLetterQueue: "prewarm_tasks" + deadLetterSuffix,
		Prefetch:        1,
	}
}

// amqpConnection abstracts amqp.Connection for testability.
type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
	IsClosed() bool
}

// amqpChannel abstracts amqp.Channel for testability.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

type connectionAdapter struct {
	conn *amqp.Connection
}

func (a *connectionAdapter) Channel() (amqpChannel, error) {
	return a.conn.Channel()
}

func (a *connectionAdapter) Close() error {
	return a.conn.Close()
}

func (a *connectionAdapter) IsClosed() bool {
	return a.conn.IsClosed()
}

// Client publishes and consumes prewarm tasks on a durable RabbitMQ queue.
// Tasks are published to the default exchange with the queue name as routing key.
type Client struct {
	conn    amqpConnection
	channel amqpChannel
	config  ClientConfig
}

var _ repository.MessageQueue = (*Client)(nil)

// NewClient dials the broker and declares the queues so misconfiguration fails at startup.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	return newClientWithConnection(ctx, &connectionAdapter{conn: conn}, cfg)
}

func newClientWithConnection(ctx context.Context, conn amqpConnection, cfg ClientConfig) (*Client, error) {
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Client{conn: conn, channel: ch, config: cfg}, nil
}

// declareTopology sets QoS and declares the task queue and its dead-letter queue.
func declareTopology(ch amqpChannel, cfg ClientConfig) error {
	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	var args amqp.Table
	if cfg.DeadLetterQueue != "" {
		if _, err := ch.QueueDeclare(cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead-letter queue: %w", err)
		}
		args = amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": cfg.DeadLetterQueue,
		}
	}

	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// PublishProcessTask sends a persistent prewarm task.
func (c *Client) PublishProcessTask(ctx context.Context, task repository.ProcessTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  messageContentType,
		Type:         messageType,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := c.channel.PublishWithContext(ctx, "", c.config.QueueName, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}
	return nil
}

// ConsumeProcessTasks blocks, passing each delivered task to handler until ctx
// is cancelled or the broker closes the delivery channel.
func (c *Client) ConsumeProcessTasks(ctx context.Context, handler func(task repository.ProcessTask) error) error {
	deliveries, err := c.channel.Consume(c.config.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handleDelivery(ctx, d, handler)
		}
	}
}

// handleDelivery settles one delivery:
//   - malformed body: Nack without requeue, so the broker dead-letters it
//   - handler success: Ack
//   - handler failure: republish with RetryCount+1, then Ack the original.
//     Nack(requeue=true) would redeliver the same body and never advance RetryCount.
func (c *Client) handleDelivery(ctx context.Context, d amqp.Delivery, handler func(task repository.ProcessTask) error) {
	task, err := decodeTask(d.Body)
	if err != nil {
		slog.Warn("rejecting prewarm message",
			"message_id", d.MessageId,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}

	if err := handler(task); err == nil {
		_ = d.Ack(false)
		return
	}

	task.RetryCount++
	if err := c.PublishProcessTask(ctx, task); err != nil {
		slog.Error("failed to republish task for retry",
			"video_url", task.VideoURL,
			"retry_count", task.RetryCount,
			"error", err,
		)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func decodeTask(body []byte) (repository.ProcessTask, error) {
	var task repository.ProcessTask
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	if strings.TrimSpace(task.VideoURL) == "" {
		return task, fmt.Errorf("%w: missing video_url", ErrMalformedTask)
	}
	if task.RetryCount < 0 {
		task.RetryCount = 0
	}
	return task, nil
}

// Ping reports whether the broker connection is still open.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil || c.conn.IsClosed() {
		return ErrConnectionClosed
	}
	return nil
}

// Close closes the channel and then the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
