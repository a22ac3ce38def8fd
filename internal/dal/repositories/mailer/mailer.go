package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/status/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/status/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/status/internal/service/models/mail"
	"github.com/corray333/backend-labs/status/internal/service/models/outbox"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	queueName      = "notifications.mailer"
	maxSendRetries = 5
)

// mailJob is the wire form consumed by the mailer worker.
type mailJob struct {
	ID       string       `json:"id"`
	QueuedAt time.Time    `json:"queuedAt"`
	Message  mail.Message `json:"message"`
}

// MailerRabbitMQRepository enqueues outgoing emails for the delivery
// subsystem. Sending is best effort: a failed publish is parked in the outbox
// and the error is reported to the caller, which treats it as non-fatal.
type MailerRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	queue      amqp.Queue
}

// NewMailerRabbitMQRepository creates the mailer and declares its queue.
func NewMailerRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *MailerRabbitMQRepository {
	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		Exclusive:  false,
		AutoDelete: false,
	})
	if err != nil {
		panic(err)
	}

	return &MailerRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		queue:      queue,
	}
}

// Send enqueues one email.
func (r *MailerRabbitMQRepository) Send(ctx context.Context, msg mail.Message) error {
	body, err := json.Marshal(mailJob{
		ID:       uuid.NewString(),
		QueuedAt: time.Now(),
		Message:  msg,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal mail job: %w", err)
	}

	err = r.client.Channel().Publish(
		"",
		r.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		now := time.Now()
		if parkErr := r.outboxRepo.Insert(ctx, outbox.Message{
			QueueName:   r.queue.Name,
			Payload:     body,
			ContentType: "application/json",
			MaxRetries:  maxSendRetries,
			CreatedAt:   now,
			UpdatedAt:   now,
			NextRetryAt: now,
		}); parkErr != nil {
			return fmt.Errorf("failed to publish mail job: %w (outbox insert also failed: %v)", err, parkErr)
		}

		return fmt.Errorf("failed to publish mail job: %w", err)
	}

	return nil
}
