package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/shenikar/dispatch_coordination_system/internal/routing"
	"github.com/shenikar/dispatch_coordination_system/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
)

//go:generate mockgen -source=controller.go -destination=mocks/controller_mock.go -package=mocks

const (
	SelectionsTotal     = metricz.Key("dispatch.selections.total")
	RouteRequestsTotal  = metricz.Key("dispatch.route.requests.total")
	RouteReadyTotal     = metricz.Key("dispatch.route.ready.total")
	RouteFailedTotal    = metricz.Key("dispatch.route.failed.total")
	RouteStaleTotal     = metricz.Key("dispatch.route.stale.total")
	RouteCancelledTotal = metricz.Key("dispatch.route.cancelled.total")

	EventStateChanged = hookz.Key("dispatch.state.changed")
)

// ErrControllerStopped возвращается командами, отправленными остановленному контроллеру
var ErrControllerStopped = errors.New("dispatch: controller stopped")

// State - наблюдаемое состояние консоли офицера. Revision растет с каждым изменением.
type State struct {
	Revision         uint64                  `json:"revision"`
	OfficerID        string                  `json:"officer_id"`
	SelectedIncident *models.Incident        `json:"selected_incident,omitempty"`
	OfficerPosition  *models.OfficerPosition `json:"officer_position,omitempty"`
	Routing          routing.State           `json:"routing"`
	View             ViewDirective           `json:"view"`
}

// Console - операции, которые слой UI вызывает на консоли одного офицера
type Console interface {
	SelectIncident(ctx context.Context, id uuid.UUID) (State, error)
	ClearSelection(ctx context.Context) (State, error)
	ToggleRouting(ctx context.Context) (State, error)
	CancelRouting(ctx context.Context) (State, error)
	ApplyStatusUpdate(ctx context.Context, id uuid.UUID, update models.StatusUpdate) (*models.Incident, error)
	Snapshot() State
}

// Options - настройки контроллера. IdleTTL задает время простоя, после которого Hub
// останавливает консоль; 0 отключает вытеснение.
type Options struct {
	SolveTimeout  time.Duration
	RefreshOnMove bool
	FocusZoom     int
	Clock         clockz.Clock
	IdleTTL       time.Duration
}

type command struct {
	fn    func() error
	reply chan error
}

// Controller координирует выбор инцидента, позицию офицера, сессию маршрутизации и ViewSync.
// Все изменяемое состояние принадлежит горутине цикла событий; внешние вызовы передаются в нее командами.
type Controller struct {
	officerID string
	incidents service.IncidentService
	logger    *logrus.Logger
	opts      Options

	cmds     chan command
	outcomes chan routing.Outcome
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	selectSeq atomic.Uint64

	// принадлежат циклу событий
	session  *routing.Session
	view     *ViewSync
	selected *models.Incident
	position *models.OfficerPosition
	revision uint64

	mu   sync.RWMutex
	last State

	hooks   *hookz.Hooks[State]
	metrics *metricz.Registry
}

func NewController(officerID string, incidents service.IncidentService, engine routing.Engine, logger *logrus.Logger, opts Options) *Controller {
	registry := metricz.New()
	registry.Counter(SelectionsTotal)
	registry.Counter(RouteRequestsTotal)
	registry.Counter(RouteReadyTotal)
	registry.Counter(RouteFailedTotal)
	registry.Counter(RouteStaleTotal)
	registry.Counter(RouteCancelledTotal)

	outcomes := make(chan routing.Outcome)
	c := &Controller{
		officerID: officerID,
		incidents: incidents,
		logger:    logger,
		opts:      opts,
		cmds:      make(chan command),
		outcomes:  outcomes,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		session:   routing.NewSession(engine, opts.Clock, opts.SolveTimeout, outcomes),
		view:      NewViewSync(opts.FocusZoom),
		hooks:     hookz.New[State](),
		metrics:   registry,
	}
	c.last = State{OfficerID: officerID, Routing: c.session.State(), View: ViewDirective{Markers: []Marker{}}}
	return c
}

// Start запускает цикл событий; цикл завершается по отмене ctx или Close
func (c *Controller) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.loop(ctx)
}

func (c *Controller) loop(ctx context.Context) {
	log := c.logger.WithFields(logrus.Fields{"component": "dispatch", "officer_id": c.officerID})
	log.Info("Dispatch controller started")
	defer func() {
		c.session.Close()
		c.hooks.Close()
		close(c.done)
		log.Info("Dispatch controller stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case cmd := <-c.cmds:
			cmd.reply <- cmd.fn()
		case o := <-c.outcomes:
			c.resolve(log, o)
		}
	}
}

// Close останавливает цикл событий и освобождает активный расчет маршрута
func (c *Controller) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	if c.started.Load() {
		<-c.done
	}
}

// do выполняет fn в горутине цикла и ждет результата
func (c *Controller) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case c.cmds <- command{fn: fn, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrControllerStopped
	case <-c.stop:
		return ErrControllerStopped
	}
	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrControllerStopped
	}
}

func (c *Controller) resolve(log *logrus.Entry, o routing.Outcome) {
	if !c.session.Resolve(o) {
		c.metrics.Counter(RouteStaleTotal).Inc()
		log.WithField("seq", o.Seq).Debug("Discarded stale route result")
		return
	}
	st := c.session.State()
	if st.Phase == routing.PhaseReady {
		c.metrics.Counter(RouteReadyTotal).Inc()
		log.WithFields(logrus.Fields{
			"seq":         st.Seq,
			"distance_km": st.Result.DistanceKm(),
			"eta_minutes": st.Result.EtaMinutes(),
		}).Info("Route computed")
	} else {
		c.metrics.Counter(RouteFailedTotal).Inc()
		log.WithError(st.Err).WithField("reason", st.Reason).Warn("Route computation failed")
	}
	c.publish()
}

// SelectIncident загружает инцидент и делает его выбранным. Расчет маршрута для прежнего
// выбора освобождается до того, как новый выбор вступает в силу. Из нескольких
// одновременных вызовов побеждает последний, остальные получают ErrSelectionSuperseded.
func (c *Controller) SelectIncident(ctx context.Context, id uuid.UUID) (State, error) {
	ticket := c.selectSeq.Add(1)
	log := c.logger.WithFields(logrus.Fields{
		"component":   "dispatch",
		"method":      "SelectIncident",
		"officer_id":  c.officerID,
		"incident_id": id,
	})

	incident, err := c.incidents.GetIncident(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch incident for selection")
		return c.Snapshot(), fmt.Errorf("dispatch: could not select incident: %w", err)
	}

	var st State
	err = c.do(ctx, func() error {
		if ticket != c.selectSeq.Load() {
			return models.ErrSelectionSuperseded
		}
		c.cancelRoute()
		c.selected = incident
		c.view.Reset()
		c.metrics.Counter(SelectionsTotal).Inc()
		st = c.publish()
		return nil
	})
	if err != nil {
		return c.Snapshot(), err
	}
	log.Info("Incident selected")
	return st, nil
}

// ClearSelection сбрасывает выбор и отменяет маршрут
func (c *Controller) ClearSelection(ctx context.Context) (State, error) {
	c.selectSeq.Add(1)
	var st State
	err := c.do(ctx, func() error {
		if c.selected == nil && c.session.State().Phase == routing.PhaseIdle {
			st = c.last
			return nil
		}
		c.cancelRoute()
		c.selected = nil
		c.view.Reset()
		st = c.publish()
		return nil
	})
	if err != nil {
		return c.Snapshot(), err
	}
	return st, nil
}

// ToggleRouting запускает расчет из idle/failed и отменяет его из computing/ready
func (c *Controller) ToggleRouting(ctx context.Context) (State, error) {
	var st State
	err := c.do(ctx, func() error {
		wasActive := c.session.State().Active()
		if !wasActive {
			c.metrics.Counter(RouteRequestsTotal).Inc()
			if c.selectionClosed() {
				_, err := c.session.Refuse(routing.ReasonIncidentClosed)
				st = c.publish()
				return err
			}
		}
		from, to := c.endpoints()
		_, err := c.session.Toggle(from, to)
		if wasActive {
			c.metrics.Counter(RouteCancelledTotal).Inc()
		}
		st = c.publish()
		return err
	})
	if err != nil && !errors.Is(err, models.ErrPreconditionFailed) {
		return c.Snapshot(), err
	}
	return st, err
}

// CancelRouting переводит сессию в idle; для idle сессии ничего не меняет
func (c *Controller) CancelRouting(ctx context.Context) (State, error) {
	var st State
	err := c.do(ctx, func() error {
		if !c.cancelRoute() {
			st = c.last
			return nil
		}
		st = c.publish()
		return nil
	})
	if err != nil {
		return c.Snapshot(), err
	}
	return st, nil
}

// UpdatePosition принимает новую позицию офицера. Если координата изменилась,
// текущий маршрут инвалидируется и при необходимости пересчитывается.
func (c *Controller) UpdatePosition(ctx context.Context, pos models.OfficerPosition) error {
	if err := pos.Coordinate.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return c.do(ctx, func() error {
		moved := c.position == nil || c.position.Coordinate != pos.Coordinate
		c.position = &pos
		if !moved {
			return nil
		}
		c.endpointsChanged()
		c.publish()
		return nil
	})
}

// IncidentUpdated применяет каноническую запись инцидента, пришедшую после успешного обновления.
// Закрытый инцидент принудительно переводит маршрутизацию в idle.
func (c *Controller) IncidentUpdated(ctx context.Context, incident *models.Incident) error {
	return c.applyIncident(ctx, incident, false)
}

// applyIncident заменяет выбранный инцидент. Терминальный статус поглощающий: он применяется
// всегда и не вытесняется нетерминальной записью. Остальные записи упорядочиваются по UpdatedAt,
// кроме собственной записи консоли (own), которая применяется безусловно.
func (c *Controller) applyIncident(ctx context.Context, incident *models.Incident, own bool) error {
	return c.do(ctx, func() error {
		if c.selected == nil || c.selected.ID != incident.ID {
			return nil
		}
		terminal := incident.Status.IsTerminal()
		if c.selected.Status.IsTerminal() && !terminal {
			return nil
		}
		if !own && !terminal && !incident.UpdatedAt.After(c.selected.UpdatedAt) {
			return nil
		}
		moved := c.selected.Coordinate != incident.Coordinate
		c.selected = incident

		switch {
		case terminal:
			if c.cancelRoute() {
				c.logger.WithFields(logrus.Fields{
					"component":   "dispatch",
					"officer_id":  c.officerID,
					"incident_id": incident.ID,
					"status":      incident.Status,
				}).Info("Routing stopped for closed incident")
			}
		case moved:
			c.endpointsChanged()
		}
		c.publish()
		return nil
	})
}

// ApplyStatusUpdate передает обновление в workflow и применяет результат к своей консоли
func (c *Controller) ApplyStatusUpdate(ctx context.Context, id uuid.UUID, update models.StatusUpdate) (*models.Incident, error) {
	if update.Author == "" {
		update.Author = c.officerID
	}
	updated, err := c.incidents.ApplyUpdate(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}
	if err := c.applyIncident(ctx, updated, true); err != nil {
		c.logger.WithError(err).WithField("incident_id", id).Warn("Failed to apply incident update to console")
	}
	return updated, nil
}

// CurrentIncident возвращает выбранный инцидент или nil
func (c *Controller) CurrentIncident() *models.Incident {
	return c.Snapshot().SelectedIncident
}

// Snapshot возвращает последнее опубликованное состояние
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// OnStateChange подписывает обработчик на изменения состояния. Доставка асинхронная.
func (c *Controller) OnStateChange(handler func(context.Context, State) error) error {
	_, err := c.hooks.Hook(EventStateChanged, handler)
	return err
}

func (c *Controller) Metrics() *metricz.Registry {
	return c.metrics
}

// requestRoute запускает новый расчет для текущей пары координат
func (c *Controller) requestRoute() (routing.State, error) {
	c.metrics.Counter(RouteRequestsTotal).Inc()
	if c.selectionClosed() {
		return c.session.Refuse(routing.ReasonIncidentClosed)
	}
	from, to := c.endpoints()
	return c.session.Request(from, to)
}

func (c *Controller) selectionClosed() bool {
	return c.selected != nil && c.selected.Status.IsTerminal()
}

// endpoints возвращает координаты офицера и выбранного инцидента; nil, если их нет
func (c *Controller) endpoints() (from, to *models.Coordinate) {
	if c.position != nil {
		p := c.position.Coordinate
		from = &p
	}
	if c.selected != nil {
		i := c.selected.Coordinate
		to = &i
	}
	return from, to
}

// cancelRoute сбрасывает сессию в idle; возвращает false, если менять было нечего
func (c *Controller) cancelRoute() bool {
	before := c.session.State()
	after := c.session.Cancel()
	if after.Seq == before.Seq {
		return false
	}
	if before.Active() {
		c.metrics.Counter(RouteCancelledTotal).Inc()
	}
	return true
}

// endpointsChanged инвалидирует маршрут при смене координат и пересчитывает его, если он был активен
func (c *Controller) endpointsChanged() {
	wasActive := c.session.State().Active()
	c.cancelRoute()
	if wasActive && c.opts.RefreshOnMove {
		if _, err := c.requestRoute(); err != nil {
			c.logger.WithError(err).WithField("officer_id", c.officerID).Warn("Failed to refresh route after move")
		}
	}
}

func (c *Controller) publish() State {
	c.revision++
	st := State{
		Revision:         c.revision,
		OfficerID:        c.officerID,
		SelectedIncident: c.selected,
		OfficerPosition:  c.position,
		Routing:          c.session.State(),
		View:             c.view.Compute(c.selected, c.position, c.session.State()),
	}

	c.mu.Lock()
	c.last = st
	c.mu.Unlock()

	_ = c.hooks.Emit(context.Background(), EventStateChanged, st) //nolint:errcheck
	return st
}
