// Package dispatch delivers transition events to side-effect consumers
// (notifications, activity feeds) without blocking the request path.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mhellwig/forumpulse/internal/domain"
	"github.com/mhellwig/forumpulse/internal/metrics"
)

const consumeTimeout = 5 * time.Second

// Notifier consumes a transition event. Implementations must tolerate
// duplicate events; delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, event domain.TransitionEvent) error
}

// Dispatcher fans committed transition events out to notifiers from a single
// worker goroutine. Publish never blocks: when the buffer is full the event
// is dropped and counted.
type Dispatcher struct {
	notifiers []Notifier
	events    chan domain.TransitionEvent
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given buffer size and starts
// its worker.
func NewDispatcher(bufferSize int, notifiers ...Notifier) *Dispatcher {
	d := &Dispatcher{
		notifiers: notifiers,
		events:    make(chan domain.TransitionEvent, bufferSize),
		stopCh:    make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Publish enqueues an event for delivery. Events arriving after Stop or while
// the buffer is full are dropped.
func (d *Dispatcher) Publish(event domain.TransitionEvent) {
	select {
	case <-d.stopCh:
		metrics.EventsDropped.Inc()
	default:
		select {
		case d.events <- event:
		default:
			metrics.EventsDropped.Inc()
			slog.Warn("Event buffer full, dropping transition event",
				"event_id", event.EventID.String(),
				"target", event.Target.String())
		}
	}
}

// Stop shuts the worker down after draining already-buffered events.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case event := <-d.events:
			d.deliver(event)
		case <-d.stopCh:
			for {
				select {
				case event := <-d.events:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(event domain.TransitionEvent) {
	// Self-reactions produce no notification.
	if event.UserID == event.TargetOwnerID {
		return
	}

	for _, n := range d.notifiers {
		ctx, cancel := context.WithTimeout(context.Background(), consumeTimeout)
		if err := n.Notify(ctx, event); err != nil {
			slog.Error("Notifier failed, event lost for this consumer",
				"event_id", event.EventID.String(),
				"target", event.Target.String(),
				"error", err)
		}
		cancel()
	}
}
