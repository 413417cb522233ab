// Package eta recomputes the customer-facing arrival estimate as courier
// positions arrive. At most one routing request runs at a time; positions
// received meanwhile collapse into a single pending slot.
package eta

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/piresc/ordertrack/internal/pkg/logger"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/piresc/ordertrack/services/tracking"
)

// EmitFunc receives every computed or re-emitted ETA. A stale ETA with an
// empty route means no estimate has succeeded yet.
type EmitFunc func(models.ETA)

// Trigger drives routing requests for one order
type Trigger struct {
	router      tracking.RoutingGW
	destination models.Position
	emit        EmitFunc
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inFlight bool
	pending  *models.Position
	last     *models.ETA
	stopped  bool
}

// NewTrigger creates a trigger routing every submitted position to destination
func NewTrigger(router tracking.RoutingGW, destination models.Position, emit EmitFunc) *Trigger {
	ctx, cancel := context.WithCancel(context.Background())
	return &Trigger{
		router:      router,
		destination: destination,
		emit:        emit,
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Submit schedules an ETA computation from pos. If a request is already
// running, pos replaces whatever was waiting and runs once it completes.
func (t *Trigger) Submit(pos models.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	if t.inFlight {
		t.pending = &pos
		return
	}

	t.inFlight = true
	t.wg.Add(1)
	go t.run(pos)
}

// Latest returns the last successfully computed ETA, if any
func (t *Trigger) Latest() *models.ETA {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.last == nil {
		return nil
	}
	eta := *t.last
	return &eta
}

// Stop cancels the running request, drops the pending position and waits
// for the worker to exit. Submit is a no-op afterwards.
func (t *Trigger) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.pending = nil
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}

func (t *Trigger) run(pos models.Position) {
	defer t.wg.Done()

	for {
		if eta, ok := t.compute(pos); ok {
			t.emit(eta)
		}

		t.mu.Lock()
		if t.stopped || t.pending == nil {
			t.inFlight = false
			t.mu.Unlock()
			return
		}
		pos = *t.pending
		t.pending = nil
		t.mu.Unlock()
	}
}

func (t *Trigger) compute(origin models.Position) (models.ETA, bool) {
	route, err := t.router.Route(t.ctx, origin, t.destination)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return models.ETA{}, false
		}
		logger.Warn("ETA recompute failed",
			logger.Float64("lat", origin.Lat),
			logger.Float64("lng", origin.Lng),
			logger.Err(err))

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.last == nil {
			// nothing to fall back to yet, signal stale with an empty route
			return models.ETA{Origin: origin, ComputedAt: t.now().UTC(), Stale: true}, true
		}
		stale := *t.last
		stale.Stale = true
		return stale, true
	}

	eta := models.ETA{
		Route:      *route,
		Origin:     origin,
		ComputedAt: t.now().UTC(),
	}

	t.mu.Lock()
	t.last = &eta
	t.mu.Unlock()

	return eta, true
}
