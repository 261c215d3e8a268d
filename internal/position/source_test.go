package position

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T) *RedisSource {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewRedisSource(client, logger)
}

func TestRedisSource_LatestEmpty(t *testing.T) {
	source := newTestSource(t)

	pos, err := source.Latest(context.Background(), "officer-1")

	require.NoError(t, err)
	assert.Nil(t, pos)
}

func TestRedisSource_PublishReplacesLatest(t *testing.T) {
	source := newTestSource(t)
	ctx := context.Background()

	require.NoError(t, source.Publish(ctx, models.OfficerPosition{
		OfficerID:  "officer-1",
		Coordinate: models.Coordinate{Latitude: 6.9, Longitude: 79.8},
		RecordedAt: time.Now().UTC(),
	}))
	require.NoError(t, source.Publish(ctx, models.OfficerPosition{
		OfficerID:  "officer-1",
		Coordinate: models.Coordinate{Latitude: 6.91, Longitude: 79.81},
		RecordedAt: time.Now().UTC(),
	}))

	pos, err := source.Latest(ctx, "officer-1")

	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, models.Coordinate{Latitude: 6.91, Longitude: 79.81}, pos.Coordinate)
}

func TestRedisSource_PublishRejectsInvalidCoordinate(t *testing.T) {
	source := newTestSource(t)

	err := source.Publish(context.Background(), models.OfficerPosition{
		OfficerID:  "officer-1",
		Coordinate: models.Coordinate{Latitude: 91, Longitude: 0},
	})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRedisSource_Subscribe(t *testing.T) {
	source := newTestSource(t)
	ctx := context.Background()
	first := models.Coordinate{Latitude: 6.9, Longitude: 79.8}
	second := models.Coordinate{Latitude: 6.92, Longitude: 79.83}
	require.NoError(t, source.Publish(ctx, models.OfficerPosition{OfficerID: "officer-1", Coordinate: first}))

	received := make(chan models.OfficerPosition, 4)
	sub, err := source.Subscribe(ctx, "officer-1", func(pos models.OfficerPosition) {
		received <- pos
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	select {
	case pos := <-received:
		assert.Equal(t, first, pos.Coordinate)
	case <-time.After(time.Second):
		t.Fatal("latest position was not delivered")
	}

	require.NoError(t, source.Publish(ctx, models.OfficerPosition{OfficerID: "officer-1", Coordinate: second}))

	select {
	case pos := <-received:
		assert.Equal(t, second, pos.Coordinate)
	case <-time.After(time.Second):
		t.Fatal("position update was not delivered")
	}

	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
}
