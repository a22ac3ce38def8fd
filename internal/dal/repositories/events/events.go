package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/status/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/status/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/status/internal/notify"
	"github.com/corray333/backend-labs/status/internal/service/models/outbox"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const maxPublishRetries = 5

// queue names per forwarded topic.
var topicQueues = map[string]string{
	notify.TopicOrderStatusUpdated:        "oms.order.status.updated",
	notify.TopicOrderStatusHistoryUpdated: "oms.order.status_history.updated",
}

// envelope wraps a bus payload for the wire.
type envelope struct {
	ID         string         `json:"id"`
	Topic      string         `json:"topic"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

// EventsRabbitMQRepository forwards bus topics to RabbitMQ queues. Publish
// failures are parked in the outbox for the retry worker; they never propagate
// into the status workflow.
type EventsRabbitMQRepository struct {
	client     *rabbitmq.Client
	outboxRepo ioutboxrepo.IOutboxRepository
	queues     map[string]amqp.Queue
}

// NewEventsRabbitMQRepository creates the bridge and declares its queues.
func NewEventsRabbitMQRepository(
	client *rabbitmq.Client,
	outboxRepo ioutboxrepo.IOutboxRepository,
) *EventsRabbitMQRepository {
	queues := make(map[string]amqp.Queue, len(topicQueues))
	for topic, name := range topicQueues {
		queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
			Name:       name,
			Durable:    true,
			Exclusive:  false,
			AutoDelete: false,
		})
		if err != nil {
			panic(err)
		}
		queues[topic] = queue
	}

	return &EventsRabbitMQRepository{
		client:     client,
		outboxRepo: outboxRepo,
		queues:     queues,
	}
}

// Register subscribes the bridge to every topic it forwards.
func (r *EventsRabbitMQRepository) Register(registry *notify.Registry) {
	for topic := range topicQueues {
		registry.Subscribe(topic, r.Forward)
	}
}

// Forward publishes a single bus notification to its queue.
func (r *EventsRabbitMQRepository) Forward(ctx context.Context, topic string, payload notify.Payload) {
	queue, ok := r.queues[topic]
	if !ok {
		return
	}

	body, err := json.Marshal(envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: time.Now(),
		Payload:    payload,
	})
	if err != nil {
		slog.Error("Failed to marshal event envelope", "topic", topic, "error", err)

		return
	}

	if err := r.publish(queue.Name, body); err != nil {
		slog.Warn("Failed to publish event, parking in outbox", "topic", topic, "error", err)
		r.park(ctx, queue.Name, body)
	}
}

func (r *EventsRabbitMQRepository) publish(queueName string, body []byte) error {
	return r.client.Channel().Publish(
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (r *EventsRabbitMQRepository) park(ctx context.Context, queueName string, body []byte) {
	now := time.Now()
	err := r.outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   queueName,
		Payload:     body,
		ContentType: "application/json",
		MaxRetries:  maxPublishRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
	if err != nil {
		slog.Error("Failed to insert event into outbox", "queue", queueName, "error", err)
	}
}
