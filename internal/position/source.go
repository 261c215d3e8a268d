package position

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	latestKeyPrefix = "officer_position:"
	channelPrefix   = "officer_position_updates:"
)

// Source - поставщик позиции офицера. Колбэк вызывается на каждое новое значение.
type Source interface {
	Subscribe(ctx context.Context, officerID string, fn func(models.OfficerPosition)) (Subscription, error)
}

// Subscription - хэндл подписки, Unsubscribe идемпотентен
type Subscription interface {
	Unsubscribe() error
}

// RedisSource хранит последнюю позицию офицера в ключе и рассылает обновления через pub/sub
type RedisSource struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// NewRedisSource создает новый RedisSource
func NewRedisSource(client *redis.Client, logger *logrus.Logger) *RedisSource {
	return &RedisSource{
		redisClient: client,
		logger:      logger,
	}
}

func latestKey(officerID string) string { return latestKeyPrefix + officerID }
func channel(officerID string) string   { return channelPrefix + officerID }

// Publish заменяет последнюю позицию офицера и уведомляет подписчиков
func (s *RedisSource) Publish(ctx context.Context, pos models.OfficerPosition) error {
	if err := pos.Coordinate.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("failed to marshal officer position: %w", err)
	}

	pipe := s.redisClient.Pipeline()
	pipe.Set(ctx, latestKey(pos.OfficerID), payload, 0)
	pipe.Publish(ctx, channel(pos.OfficerID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish officer position: %w", err)
	}
	return nil
}

// Latest возвращает последнюю позицию или nil, если фиксации еще не было
func (s *RedisSource) Latest(ctx context.Context, officerID string) (*models.OfficerPosition, error) {
	val, err := s.redisClient.Get(ctx, latestKey(officerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get officer position: %w", err)
	}
	pos := &models.OfficerPosition{}
	if err := json.Unmarshal(val, pos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal officer position: %w", err)
	}
	return pos, nil
}

// Subscribe доставляет последнюю известную позицию (если есть), затем каждое обновление
func (s *RedisSource) Subscribe(ctx context.Context, officerID string, fn func(models.OfficerPosition)) (Subscription, error) {
	log := s.logger.WithField("officer_id", officerID)

	ps := s.redisClient.Subscribe(ctx, channel(officerID))
	// Ждем подтверждения подписки, чтобы не потерять обновления между Latest и первым сообщением
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to officer position: %w", err)
	}

	latest, err := s.Latest(ctx, officerID)
	if err != nil {
		log.WithError(err).Warn("Failed to read latest officer position")
	}

	sub := &redisSubscription{ps: ps}
	go func() {
		if latest != nil {
			fn(*latest)
		}
		for msg := range ps.Channel() {
			var pos models.OfficerPosition
			if err := json.Unmarshal([]byte(msg.Payload), &pos); err != nil {
				log.WithError(err).Error("Failed to unmarshal officer position update")
				continue
			}
			fn(pos)
		}
		log.Debug("Officer position subscription closed")
	}()
	return sub, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	once sync.Once
	err  error
}

func (r *redisSubscription) Unsubscribe() error {
	r.once.Do(func() {
		r.err = r.ps.Close()
	})
	return r.err
}
