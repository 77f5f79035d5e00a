package ui

import (
	"sync"

	"github.com/rivo/tview"
)

// Scheduler runs functions on the application's event loop, after the event
// being handled, in the order they were scheduled. Close it once the
// application has stopped.
type Scheduler struct {
	app   *tview.Application
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

func NewScheduler(app *tview.Application) *Scheduler {
	s := &Scheduler{
		app:   app,
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Schedule queues fn. Functions scheduled after Close are dropped.
func (s *Scheduler) Schedule(fn func()) {
	if s.closed() {
		return
	}
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// Close stops forwarding. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Scheduler) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// run forwards to QueueUpdateDraw, which blocks until the event loop has run
// the function, so it must never be called from the event loop itself.
func (s *Scheduler) run() {
	for {
		select {
		case fn := <-s.queue:
			if s.closed() {
				return
			}
			s.app.QueueUpdateDraw(fn)
		case <-s.done:
			return
		}
	}
}
