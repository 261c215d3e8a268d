package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/webhook"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

//go:generate mockgen -source=incident.go -destination=mocks/incident_mock.go -package=mocks

const (
	StatusUpdatesTotal    = metricz.Key("status.updates.total")
	StatusUpdatesRejected = metricz.Key("status.updates.rejected")
	NotificationsQueued   = metricz.Key("status.notifications.queued")

	ApplyUpdateSpan  = tracez.Key("status.apply_update")
	TagIncidentID    = tracez.Tag("incident.id")
	TagNextStatus    = tracez.Tag("status.next")
	TagUpdateError   = tracez.Tag("status.error")
	TagNotifiedAdded = tracez.Tag("status.notified_added")
)

// IncidentRepository определяет контракт для работы с хранилищем инцидентов (внешний reports API)
type IncidentRepository interface {
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, change models.StatusChange) (*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// UpdateListener получает каноническую запись инцидента после успешного обновления
type UpdateListener = func(ctx context.Context, incident *models.Incident)

// IncidentService определяет контракт бизнес-логики инцидентов: чтение и жизненный цикл статуса
type IncidentService interface {
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, update models.StatusUpdate) (*models.Incident, error)
	Authorities() []models.Authority
	AddListener(listener func(ctx context.Context, incident *models.Incident))
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	publisher webhook.WebhookPublisher
	metrics   *metricz.Registry
	tracer    *tracez.Tracer

	mu        sync.RWMutex
	local     map[uuid.UUID]*models.Incident
	locks     map[uuid.UUID]*sync.Mutex
	listeners []UpdateListener
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, publisher webhook.WebhookPublisher) IncidentService {
	registry := metricz.New()
	registry.Counter(StatusUpdatesTotal)
	registry.Counter(StatusUpdatesRejected)
	registry.Counter(NotificationsQueued)

	return &incidentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
		metrics:   registry,
		tracer:    tracez.New(),
		local:     make(map[uuid.UUID]*models.Incident),
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// ListIncidents возвращает список инцидентов с фильтром и пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"status":    filter.Status,
		"severity":  filter.Severity,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
	log.Info("Listing incidents")

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("service: %w: unknown status %q", models.ErrValidation, filter.Status)
	}
	if filter.Severity != "" && !filter.Severity.Valid() {
		return nil, fmt.Errorf("service: %w: unknown severity %q", models.ErrValidation, filter.Severity)
	}

	incidents, err := s.repo.ListIncidents(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// GetIncident получает инцидент по ID: сначала из кеша, затем из БД
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return s.remember(cached), nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}

	log.Info("Incident fetched successfully")
	return s.remember(incident), nil
}

// ApplyUpdate применяет переход статуса: проверяет предусловия, сохраняет изменение во внешнем
// хранилище и только после успешной записи обновляет локальное состояние.
func (s *incidentService) ApplyUpdate(ctx context.Context, id uuid.UUID, update models.StatusUpdate) (*models.Incident, error) {
	ctx, span := s.tracer.StartSpan(ctx, ApplyUpdateSpan)
	defer span.Finish()
	span.SetTag(TagIncidentID, id.String())

	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ApplyUpdate",
		"incident_id": id,
		"author":      update.Author,
	})
	log.Info("Attempting to apply status update")
	s.metrics.Counter(StatusUpdatesTotal).Inc()

	reject := func(err error) (*models.Incident, error) {
		s.metrics.Counter(StatusUpdatesRejected).Inc()
		span.SetTag(TagUpdateError, err.Error())
		return nil, err
	}

	if err := validateUpdate(update); err != nil {
		log.WithError(err).Warn("Status update rejected by validation")
		return reject(fmt.Errorf("service: %w", err))
	}

	unlock := s.lockIncident(id)
	defer unlock()

	current, err := s.current(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return reject(fmt.Errorf("service: incident with id %s not found for update: %w", id, err))
	}

	change, err := planChange(current, update, time.Now().UTC())
	if err != nil {
		log.WithError(err).WithField("current_status", current.Status).Warn("Status transition rejected")
		return reject(fmt.Errorf("service: %w", err))
	}
	span.SetTag(TagNextStatus, string(change.Status))

	updated, err := s.repo.UpdateStatus(ctx, id, change)
	if err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return reject(fmt.Errorf("service: could not update incident status: %w", err))
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	s.store(updated)

	added := s.notifyAuthorities(ctx, log, current, updated, change.Note)
	span.SetTag(TagNotifiedAdded, fmt.Sprintf("%d", added))

	log.WithFields(logrus.Fields{
		"status":   updated.Status,
		"severity": updated.Severity,
	}).Info("Status update applied successfully")

	for _, l := range s.snapshotListeners() {
		l(ctx, updated)
	}
	return updated, nil
}

// Authorities возвращает справочник экстренных служб
func (s *incidentService) Authorities() []models.Authority {
	return models.Authorities()
}

// AddListener регистрирует получателя обновлений; вызывается синхронно после записи
func (s *incidentService) AddListener(listener func(ctx context.Context, incident *models.Incident)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *incidentService) snapshotListeners() []UpdateListener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UpdateListener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// current возвращает локальное состояние инцидента, загружая его при необходимости
func (s *incidentService) current(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	s.mu.RLock()
	incident, ok := s.local[id]
	s.mu.RUnlock()
	if ok {
		return incident, nil
	}
	return s.GetIncident(ctx, id)
}

// remember сливает прочитанную запись в локальное состояние; более старая запись не вытесняет новую
func (s *incidentService) remember(incident *models.Incident) *models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.local[incident.ID]; ok && existing.UpdatedAt.After(incident.UpdatedAt) {
		return existing
	}
	s.local[incident.ID] = incident
	return incident
}

// store кладет запись собственной успешной записи в локальное состояние безусловно.
// Вызывается под блокировкой инцидента.
func (s *incidentService) store(incident *models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[incident.ID] = incident
}

func (s *incidentService) lockIncident(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// notifyAuthorities ставит в очередь оповещения только для служб, добавленных этим обновлением
func (s *incidentService) notifyAuthorities(ctx context.Context, log *logrus.Entry, before, after *models.Incident, note models.Note) int {
	added := 0
	for _, id := range after.NotifiedAuthorities {
		if before.HasNotified(id) {
			continue
		}
		authority, err := models.LookupAuthority(id)
		if err != nil {
			log.WithError(err).Warn("Skipping notification for unknown authority")
			continue
		}
		event := webhook.WebhookEvent{
			IncidentID:    after.ID,
			Authority:     authority.ID,
			AuthorityName: authority.Name,
			Contact:       authority.Contact,
			Status:        after.Status,
			Severity:      after.Severity,
			Latitude:      after.Coordinate.Latitude,
			Longitude:     after.Coordinate.Longitude,
			Note:          note.Text,
			NotifiedBy:    note.Author,
			Timestamp:     note.Timestamp,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.WithError(err).WithField("authority", id).Error("Failed to queue authority notification")
			continue
		}
		s.metrics.Counter(NotificationsQueued).Inc()
		added++
	}
	return added
}

func validateUpdate(update models.StatusUpdate) error {
	if strings.TrimSpace(update.Notes) == "" {
		return fmt.Errorf("%w: notes are required", models.ErrValidation)
	}
	if strings.TrimSpace(update.Author) == "" {
		return fmt.Errorf("%w: author is required", models.ErrValidation)
	}
	if update.Status != nil && !update.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, *update.Status)
	}
	if update.Severity != nil && !update.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", models.ErrValidation, *update.Severity)
	}
	for _, id := range update.AuthoritiesToNotify {
		if _, err := models.LookupAuthority(id); err != nil {
			return err
		}
	}
	return nil
}

// planChange вычисляет итоговое состояние по таблице переходов
func planChange(current *models.Incident, update models.StatusUpdate, now time.Time) (models.StatusChange, error) {
	if current.Status.IsTerminal() {
		return models.StatusChange{}, fmt.Errorf("%w: incident is %s", models.ErrInvalidTransition, current.Status)
	}

	next := current.Status
	if update.Status != nil {
		next = *update.Status
	}
	if !current.Status.CanTransitionTo(next) {
		return models.StatusChange{}, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, current.Status, next)
	}

	severity := current.Severity
	if update.Severity != nil {
		severity = *update.Severity
	}

	return models.StatusChange{
		Status:   next,
		Severity: severity,
		Note: models.Note{
			Author:    strings.TrimSpace(update.Author),
			Text:      strings.TrimSpace(update.Notes),
			Timestamp: now,
		},
		NotifiedAuthorities: models.MergeAuthorities(current.NotifiedAuthorities, update.AuthoritiesToNotify),
	}, nil
}

// IsClientError сообщает, вызвана ли ошибка некорректным запросом, а не сбоем хранилища
func IsClientError(err error) bool {
	return errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrNotFound)
}
