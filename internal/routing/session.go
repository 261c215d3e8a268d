package routing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/dispatch_coordination_system/internal/models"
	"github.com/zoobzio/clockz"
)

// Phase - фаза сессии маршрутизации
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseComputing Phase = "computing"
	PhaseReady     Phase = "ready"
	PhaseFailed    Phase = "failed"
)

// Причины, по которым маршрут не может быть построен
const (
	ReasonNoOfficerPosition = "officer position unavailable"
	ReasonNoIncident        = "no incident selected"
	ReasonInvalidCoordinate = "invalid coordinate"
	ReasonIncidentClosed    = "incident is closed"
	ReasonTimeout           = "timeout"
	ReasonUnableToRoute     = "unable to compute route, try again"
)

// State - снимок состояния сессии. Seq - номер запроса, к которому относится состояние.
type State struct {
	Phase  Phase               `json:"phase"`
	Seq    uint64              `json:"seq"`
	From   *models.Coordinate  `json:"from,omitempty"`
	To     *models.Coordinate  `json:"to,omitempty"`
	Result *models.RouteResult `json:"result,omitempty"`
	Reason string              `json:"reason,omitempty"`
	Err    error               `json:"-"`
}

// Active - идет расчет или маршрут готов
func (s State) Active() bool {
	return s.Phase == PhaseComputing || s.Phase == PhaseReady
}

// Outcome - результат одного запроса, помеченный его номером
type Outcome struct {
	Seq    uint64
	Result *models.RouteResult
	Err    error
}

// Session владеет не более чем одним активным расчетом маршрута.
//
// Session не потокобезопасна: все методы вызываются из одной горутины-владельца.
// Результаты расчетов приходят в канал out и применяются владельцем через Resolve;
// результат с устаревшим номером запроса отбрасывается.
type Session struct {
	engine  Engine
	clock   clockz.Clock
	timeout time.Duration
	out     chan<- Outcome

	seq    uint64
	state  State
	active Invocation
	stop   chan struct{}
}

func NewSession(engine Engine, clock clockz.Clock, timeout time.Duration, out chan<- Outcome) *Session {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &Session{
		engine:  engine,
		clock:   clock,
		timeout: timeout,
		out:     out,
		state:   State{Phase: PhaseIdle},
	}
}

func (s *Session) State() State {
	return s.state
}

// Request отменяет текущий расчет и запускает новый для пары (from, to).
// Отсутствующая или некорректная координата оставляет сессию в idle с причиной и возвращает ErrPreconditionFailed.
func (s *Session) Request(from, to *models.Coordinate) (State, error) {
	if reason := precondition(from, to); reason != "" {
		return s.Refuse(reason)
	}

	s.seq++
	s.release()

	f, t := *from, *to
	inv := s.engine.Solve(f, t)
	s.active = inv
	s.stop = make(chan struct{})
	s.state = State{Phase: PhaseComputing, Seq: s.seq, From: &f, To: &t}

	go s.watch(s.seq, inv, s.stop)
	return s.state, nil
}

// Refuse отменяет текущий расчет и оставляет сессию в idle с причиной отказа
func (s *Session) Refuse(reason string) (State, error) {
	s.seq++
	s.release()
	s.state = State{Phase: PhaseIdle, Seq: s.seq, Reason: reason}
	return s.state, fmt.Errorf("%w: %s", models.ErrPreconditionFailed, reason)
}

// Cancel синхронно освобождает текущий расчет. После возврата ни один результат отмененного
// запроса не будет применен. Для сессии в idle ничего не меняет.
func (s *Session) Cancel() State {
	if s.state.Phase == PhaseIdle && s.active == nil {
		return s.state
	}
	s.seq++
	s.release()
	s.state = State{Phase: PhaseIdle, Seq: s.seq}
	return s.state
}

// Toggle: активная сессия сбрасывается в idle, иначе запускается новый расчет
func (s *Session) Toggle(from, to *models.Coordinate) (State, error) {
	if s.state.Active() {
		return s.Cancel(), nil
	}
	return s.Request(from, to)
}

// Resolve применяет результат расчета, если он относится к текущему запросу.
// Возвращает false для устаревших результатов.
func (s *Session) Resolve(o Outcome) bool {
	if o.Seq != s.seq || s.state.Phase != PhaseComputing {
		return false
	}
	s.release()

	next := State{Phase: PhaseReady, Seq: s.seq, From: s.state.From, To: s.state.To}
	switch {
	case o.Err == nil && o.Result != nil:
		next.Result = o.Result
	case errors.Is(o.Err, models.ErrSolverTimeout):
		next.Phase = PhaseFailed
		next.Reason = ReasonTimeout
		next.Err = o.Err
	default:
		next.Phase = PhaseFailed
		next.Reason = ReasonUnableToRoute
		next.Err = fmt.Errorf("%w: %v", models.ErrSolverFailed, o.Err)
	}
	s.state = next
	return true
}

// Close освобождает ресурсы сессии
func (s *Session) Close() {
	s.Cancel()
}

func (s *Session) release() {
	if s.active != nil {
		s.active.Dispose()
		s.active = nil
	}
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Session) watch(seq uint64, inv Invocation, stop <-chan struct{}) {
	o := Outcome{Seq: seq}
	select {
	case <-inv.Done():
		o.Result, o.Err = inv.Result()
		if o.Err == nil && o.Result == nil {
			o.Err = fmt.Errorf("empty route result")
		}
	case <-s.clock.After(s.timeout):
		o.Err = models.ErrSolverTimeout
	case <-stop:
		return
	}

	// отмена имеет приоритет над доставкой
	select {
	case <-stop:
		return
	default:
	}

	select {
	case s.out <- o:
	case <-stop:
	}
}

func precondition(from, to *models.Coordinate) string {
	switch {
	case from == nil:
		return ReasonNoOfficerPosition
	case to == nil:
		return ReasonNoIncident
	case from.Validate() != nil, to.Validate() != nil:
		return ReasonInvalidCoordinate
	}
	return ""
}
