package toggleevents

import (
	"sync"

	"github.com/mohammed-shakir/parkmap/internal/core/observability"
)

// queue is the bounded, non-blocking hand-off between Publish and a sink's
// writer goroutine. Sends after shut are dropped.
type queue struct {
	driver string
	mu     sync.RWMutex
	shut   bool
	events chan Event
}

func newQueue(driver string, size int) *queue {
	if size <= 0 {
		size = defaultQueue
	}
	return &queue{driver: driver, events: make(chan Event, size)}
}

func (q *queue) put(ev Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.shut {
		observability.IncEventDropped(q.driver, "closed")
		return
	}
	select {
	case q.events <- ev:
	default:
		observability.IncEventDropped(q.driver, "queue_full")
	}
}

// shutdown closes the channel once and reports whether this call did it.
func (q *queue) shutdown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.shut {
		return false
	}
	q.shut = true
	close(q.events)
	return true
}
