package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
)

const (
	NotificationsDelivered   = metricz.Key("webhook.notifications.delivered")
	NotificationsRetried     = metricz.Key("webhook.notifications.retried")
	NotificationsDeadLetters = metricz.Key("webhook.notifications.dead_letters")
)

const (
	signatureHeader = "X-Webhook-Signature"
	authorityHeader = "X-Authority"
	popTimeout      = time.Second
	requeueTimeout  = 2 * time.Second
)

// WebhookWorker забирает оповещения из очереди и доставляет их на WEBHOOK_URL
type WebhookWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	httpClient  *http.Client
	clock       clockz.Clock
	metrics     *metricz.Registry

	url        string
	secret     string
	maxRetries int
	baseDelay  time.Duration
	pauseOnErr time.Duration

	done chan struct{}
}

// NewWebhookWorker создает новый WebhookWorker
func NewWebhookWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *WebhookWorker {
	registry := metricz.New()
	registry.Counter(NotificationsDelivered)
	registry.Counter(NotificationsRetried)
	registry.Counter(NotificationsDeadLetters)

	maxRetries := cfg.WebhookMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &WebhookWorker{
		redisClient: redisClient,
		logger:      logger,
		httpClient:  &http.Client{Timeout: cfg.WebhookTimeout},
		clock:       clockz.RealClock,
		metrics:     registry,
		url:         cfg.WebhookURL,
		secret:      cfg.WebhookSecret,
		maxRetries:  maxRetries,
		baseDelay:   cfg.WebhookBaseDelay,
		pauseOnErr:  cfg.WebhookTimeout,
		done:        make(chan struct{}),
	}
}

// Start запускает горутину обработки очереди оповещений
func (w *WebhookWorker) Start(ctx context.Context) {
	w.logger.Info("Starting webhook worker...")
	go w.run(ctx)
}

// Done закрывается после остановки воркера
func (w *WebhookWorker) Done() <-chan struct{} {
	return w.done
}

func (w *WebhookWorker) run(ctx context.Context) {
	defer close(w.done)
	for {
		if ctx.Err() != nil {
			w.logger.Info("Stopping webhook worker.")
			return
		}
		event, payload, ok := w.next(ctx)
		if !ok {
			continue
		}
		if w.processWebhookEvent(ctx, event, payload) {
			continue
		}
		if ctx.Err() != nil {
			// доставка прервана остановкой: возвращаем оповещение в голову очереди
			w.requeue(event, payload)
			continue
		}
		w.deadLetter(ctx, event, payload)
	}
}

// next блокируется на очереди не дольше popTimeout
func (w *WebhookWorker) next(ctx context.Context) (WebhookEvent, string, bool) {
	var event WebhookEvent

	result, err := w.redisClient.BRPop(ctx, popTimeout, webhookQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
			w.logger.WithError(err).Error("Failed to pop notification from Redis")
			w.wait(ctx, w.pauseOnErr)
		}
		return event, "", false
	}

	// result[0] - ключ, result[1] - значение
	payload := result[1]
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		w.logger.WithError(err).Error("Dropping malformed notification")
		return event, "", false
	}
	return event, payload, true
}

// processWebhookEvent доставляет оповещение с повторами и экспоненциальной задержкой.
// Возвращает true, если служба подтвердила прием.
func (w *WebhookWorker) processWebhookEvent(ctx context.Context, event WebhookEvent, rawPayload string) bool {
	log := w.logger.WithFields(logrus.Fields{
		"incident_id": event.IncidentID,
		"authority":   event.Authority,
	})
	log.Debug("Delivering authority notification...")

	if w.url == "" {
		log.Warn("Webhook URL is not configured. Skipping notification delivery.")
		return false
	}

	delay := w.baseDelay
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.send(ctx, event, rawPayload)
		if err == nil {
			w.metrics.Counter(NotificationsDelivered).Inc()
			log.WithField("attempt", attempt).Info("Authority notified")
			return true
		}
		left := w.maxRetries - attempt
		log.WithError(err).WithField("retries_left", left).Warn("Notification delivery failed")
		if left == 0 {
			break
		}
		w.metrics.Counter(NotificationsRetried).Inc()
		if !w.wait(ctx, delay) {
			return false
		}
		delay *= 2
	}

	log.Errorf("Giving up on notification after %d attempts", w.maxRetries)
	return false
}

func (w *WebhookWorker) send(ctx context.Context, event WebhookEvent, rawPayload string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewBufferString(rawPayload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authorityHeader, string(event.Authority))

	// Подписываем тело, если WEBHOOK_SECRET задан
	if w.secret != "" {
		req.Header.Set(signatureHeader, generateHMACSHA256(rawPayload, w.secret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}
	return nil
}

// requeue кладет оповещение обратно так, что BRPOP заберет его первым
func (w *WebhookWorker) requeue(event WebhookEvent, payload string) {
	ctx, cancel := context.WithTimeout(context.Background(), requeueTimeout)
	defer cancel()
	if err := w.redisClient.RPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		w.logger.WithError(err).WithField("incident_id", event.IncidentID).Error("Failed to requeue interrupted notification")
		return
	}
	w.logger.WithField("incident_id", event.IncidentID).Info("Interrupted notification returned to queue")
}

// deadLetter откладывает недоставленное оповещение для ручного разбора
func (w *WebhookWorker) deadLetter(ctx context.Context, event WebhookEvent, payload string) {
	w.metrics.Counter(NotificationsDeadLetters).Inc()
	if err := w.redisClient.LPush(ctx, deadLetterKey, payload).Err(); err != nil {
		w.logger.WithError(err).WithField("incident_id", event.IncidentID).Error("Failed to store undelivered notification")
	}
}

// wait ждет d или отмены контекста; false - если контекст отменен
func (w *WebhookWorker) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-w.clock.After(d):
		return true
	}
}

func (w *WebhookWorker) Metrics() *metricz.Registry {
	return w.metrics
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}
