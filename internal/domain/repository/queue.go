package repository

import "context"

// ProcessTask asks a worker to run the processing pipeline for a video so the
// result is cached before anyone requests it.
type ProcessTask struct {
	VideoURL   string `json:"video_url"`
	RetryCount int    `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishProcessTask sends a prewarm task to the queue.
	PublishProcessTask(ctx context.Context, task ProcessTask) error

	// ConsumeProcessTasks blocks, calling handler for each received task until
	// ctx is cancelled or the channel closes. A handler error triggers a retry.
	ConsumeProcessTasks(ctx context.Context, handler func(task ProcessTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
