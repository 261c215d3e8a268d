package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/position"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
	"github.com/shenikar/dispatch_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/metricz"
)

//go:generate mockgen -source=hub.go -destination=mocks/hub_mock.go -package=mocks

const (
	ConsolesActive  = metricz.Key("dispatch.consoles.active")
	ConsolesEvicted = metricz.Key("dispatch.consoles.evicted")
)

// PositionFeed - источник позиций, в который можно и публиковать
type PositionFeed interface {
	position.Source
	Publish(ctx context.Context, pos models.OfficerPosition) error
}

// Consoles выдает консоль офицера и принимает его позицию
type Consoles interface {
	Console(ctx context.Context, officerID string) (Console, error)
	PublishPosition(ctx context.Context, officerID string, coord models.Coordinate) error
}

type consoleEntry struct {
	controller *Controller
	sub        position.Subscription
	lastUsed   time.Time
}

// Hub держит по одному контроллеру на офицера и рассылает им обновления инцидентов
type Hub struct {
	ctx       context.Context
	incidents service.IncidentService
	feed      PositionFeed
	engine    routing.Engine
	logger    *logrus.Logger
	opts      Options
	clock     clockz.Clock

	mu       sync.Mutex
	consoles map[string]*consoleEntry
	closed   bool

	stop     chan struct{}
	stopOnce sync.Once
	reaped   chan struct{}

	metrics *metricz.Registry
}

// NewHub создает Hub и регистрирует его получателем обновлений workflow.
// Контроллеры живут, пока не отменен ctx или не вызван Close. При opts.IdleTTL > 0
// консоли, к которым не обращались дольше IdleTTL, отписываются от ленты и останавливаются.
func NewHub(ctx context.Context, incidents service.IncidentService, feed PositionFeed, engine routing.Engine, logger *logrus.Logger, opts Options) *Hub {
	registry := metricz.New()
	registry.Gauge(ConsolesActive)
	registry.Counter(ConsolesEvicted)

	clock := opts.Clock
	if clock == nil {
		clock = clockz.RealClock
	}

	h := &Hub{
		ctx:       ctx,
		incidents: incidents,
		feed:      feed,
		engine:    engine,
		logger:    logger,
		opts:      opts,
		clock:     clock,
		consoles:  make(map[string]*consoleEntry),
		stop:      make(chan struct{}),
		reaped:    make(chan struct{}),
		metrics:   registry,
	}
	incidents.AddListener(h.IncidentUpdated)

	if opts.IdleTTL > 0 {
		go h.reap(clock.NewTicker(reapInterval(opts.IdleTTL)))
	} else {
		close(h.reaped)
	}
	return h
}

// reapInterval - период проверки простаивающих консолей
func reapInterval(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// Console возвращает консоль офицера, создавая ее при первом обращении
func (h *Hub) Console(ctx context.Context, officerID string) (Console, error) {
	c, err := h.controller(ctx, officerID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (h *Hub) controller(ctx context.Context, officerID string) (*Controller, error) {
	officerID = strings.TrimSpace(officerID)
	if officerID == "" {
		return nil, fmt.Errorf("dispatch: %w: officer id is required", models.ErrValidation)
	}

	if c, ok, err := h.lookup(officerID); ok || err != nil {
		return c, err
	}

	log := h.logger.WithFields(logrus.Fields{"component": "dispatch_hub", "officer_id": officerID})

	// Подписка выполняется без блокировки Hub
	controller := NewController(officerID, h.incidents, h.engine, h.logger, h.opts)
	controller.Start(h.ctx)

	sub, err := h.feed.Subscribe(ctx, officerID, func(pos models.OfficerPosition) {
		if err := controller.UpdatePosition(h.ctx, pos); err != nil && !errors.Is(err, ErrControllerStopped) {
			log.WithError(err).Warn("Failed to apply officer position")
		}
	})
	if err != nil {
		controller.Close()
		log.WithError(err).Error("Failed to subscribe console to position feed")
		return nil, fmt.Errorf("dispatch: could not subscribe to officer position: %w", err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.release(officerID, &consoleEntry{controller: controller, sub: sub})
		return nil, ErrControllerStopped
	}
	if entry, ok := h.consoles[officerID]; ok {
		// консоль успела создать параллельная горутина
		entry.lastUsed = h.clock.Now()
		h.mu.Unlock()
		h.release(officerID, &consoleEntry{controller: controller, sub: sub})
		return entry.controller, nil
	}
	h.consoles[officerID] = &consoleEntry{controller: controller, sub: sub, lastUsed: h.clock.Now()}
	h.metrics.Gauge(ConsolesActive).Set(float64(len(h.consoles)))
	h.mu.Unlock()

	log.Info("Console created")
	return controller, nil
}

// lookup возвращает существующую консоль и отмечает обращение к ней
func (h *Hub) lookup(officerID string) (*Controller, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false, ErrControllerStopped
	}
	entry, ok := h.consoles[officerID]
	if !ok {
		return nil, false, nil
	}
	entry.lastUsed = h.clock.Now()
	return entry.controller, true, nil
}

// release отписывает консоль от ленты и останавливает контроллер. Вызывается без блокировки Hub.
func (h *Hub) release(officerID string, entry *consoleEntry) {
	if err := entry.sub.Unsubscribe(); err != nil {
		h.logger.WithError(err).WithField("officer_id", officerID).Warn("Failed to unsubscribe console")
	}
	entry.controller.Close()
}

func (h *Hub) reap(ticker clockz.Ticker) {
	defer close(h.reaped)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C():
			h.evictIdle()
		case <-h.stop:
			return
		case <-h.ctx.Done():
			return
		}
	}
}

// evictIdle останавливает консоли, к которым не обращались дольше IdleTTL
func (h *Hub) evictIdle() {
	h.mu.Lock()
	idle := make(map[string]*consoleEntry)
	for id, entry := range h.consoles {
		if h.clock.Since(entry.lastUsed) > h.opts.IdleTTL {
			idle[id] = entry
			delete(h.consoles, id)
		}
	}
	h.metrics.Gauge(ConsolesActive).Set(float64(len(h.consoles)))
	h.mu.Unlock()

	for id, entry := range idle {
		h.release(id, entry)
		h.metrics.Counter(ConsolesEvicted).Inc()
		h.logger.WithFields(logrus.Fields{
			"component":  "dispatch_hub",
			"officer_id": id,
			"idle_for":   h.clock.Since(entry.lastUsed).String(),
		}).Info("Idle console evicted")
	}
}

// PublishPosition публикует новую позицию офицера в ленту; консоль получает ее через подписку
func (h *Hub) PublishPosition(ctx context.Context, officerID string, coord models.Coordinate) error {
	if _, err := h.controller(ctx, officerID); err != nil {
		return err
	}
	pos := models.OfficerPosition{
		OfficerID:  strings.TrimSpace(officerID),
		Coordinate: coord,
		RecordedAt: h.clock.Now().UTC(),
	}
	if err := h.feed.Publish(ctx, pos); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}

// IncidentUpdated рассылает каноническую запись инцидента всем консолям
func (h *Hub) IncidentUpdated(ctx context.Context, incident *models.Incident) {
	h.mu.Lock()
	controllers := make([]*Controller, 0, len(h.consoles))
	for _, entry := range h.consoles {
		controllers = append(controllers, entry.controller)
	}
	h.mu.Unlock()

	for _, c := range controllers {
		if err := c.IncidentUpdated(ctx, incident); err != nil && !errors.Is(err, ErrControllerStopped) {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"component":   "dispatch_hub",
				"officer_id":  c.officerID,
				"incident_id": incident.ID,
			}).Warn("Failed to deliver incident update to console")
		}
	}
}

func (h *Hub) Metrics() *metricz.Registry {
	return h.metrics
}

// Close останавливает сборщик простаивающих консолей, отписывает консоли от ленты позиций и останавливает их
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.reaped

	h.mu.Lock()
	entries := h.consoles
	h.consoles = make(map[string]*consoleEntry)
	h.closed = true
	h.mu.Unlock()

	for id, entry := range entries {
		h.release(id, entry)
	}
	h.metrics.Gauge(ConsolesActive).Set(0)
}
