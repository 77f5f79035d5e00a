package treeview

// Scheduler defers a function until the current synchronous turn is over.
// Selection notifications go through it so observers only ever see settled
// state and cannot re-enter a running operation.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// Queue collects scheduled functions until Flush runs them. It is the
// controller's default scheduler.
type Queue struct {
	pending []func()
}

func (q *Queue) Schedule(fn func()) {
	q.pending = append(q.pending, fn)
}

// Flush runs queued functions in order, including any scheduled while
// flushing, and reports how many ran.
func (q *Queue) Flush() int {
	n := 0
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
		n++
	}
	return n
}

func (q *Queue) Len() int { return len(q.pending) }
