package outbox

import (
	"time"
)

// Message is a bus or mailer publication that failed to reach RabbitMQ and is
// waiting to be retried. Publishes go to the default exchange, so the queue
// name is the full routing information.
type Message struct {
	ID          int64
	QueueName   string
	Payload     []byte
	ContentType string
	RetryCount  int
	MaxRetries  int
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt time.Time
}
