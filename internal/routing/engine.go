package routing

import (
	"context"
	"sync"

	"github.com/shenikar/dispatch_coordination_system/internal/models"
)

// Engine - внешний решатель маршрутов. Solve запускает расчет асинхронно и сразу возвращает Invocation.
type Engine interface {
	Solve(from, to models.Coordinate) Invocation
}

// Invocation - один запущенный расчет маршрута.
// Dispose можно вызывать в любой момент, в том числе посреди расчета; повторный вызов ничего не делает.
type Invocation interface {
	// Done закрывается, когда результат или ошибка готовы
	Done() <-chan struct{}
	// Result валиден только после закрытия Done
	Result() (*models.RouteResult, error)
	Dispose()
}

// SolveFunc - синхронная функция расчета, которую invocation выполняет в отдельной горутине
type SolveFunc func(ctx context.Context, from, to models.Coordinate) (*models.RouteResult, error)

type invocation struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	result *models.RouteResult
	err    error

	disposeOnce sync.Once
}

// Start запускает fn в горутине и возвращает Invocation, которую можно отменить через Dispose
func Start(fn SolveFunc, from, to models.Coordinate) Invocation {
	ctx, cancel := context.WithCancel(context.Background())
	inv := &invocation{
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(inv.done)
		inv.result, inv.err = fn(ctx, from, to)
	}()
	return inv
}

func (i *invocation) Done() <-chan struct{} {
	return i.done
}

func (i *invocation) Result() (*models.RouteResult, error) {
	select {
	case <-i.done:
		return i.result, i.err
	default:
		return nil, context.Canceled
	}
}

func (i *invocation) Dispose() {
	i.disposeOnce.Do(i.cancel)
}
