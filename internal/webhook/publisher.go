package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
)

const (
	webhookQueueKey = "authority_notifications"
	deadLetterKey   = "authority_notifications:dead"
)

// WebhookEvent - оповещение экстренной службы об инциденте
type WebhookEvent struct {
	IncidentID    uuid.UUID          `json:"incident_id"`
	Authority     models.AuthorityID `json:"authority"`
	AuthorityName string             `json:"authority_name"`
	Contact       string             `json:"contact"`
	Status        models.Status      `json:"status"`
	Severity      models.Severity    `json:"severity"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Note          string             `json:"note,omitempty"`
	NotifiedBy    string             `json:"notified_by"`
	Timestamp     time.Time          `json:"timestamp"`
}

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher ставит оповещения в очередь Redis, откуда их забирает WebhookWorker
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	// LPUSH + BRPOP у воркера дают FIFO
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue notification for %s: %w", event.Authority, err)
	}
	return nil
}
