package surface

import "sync"

// Listeners is a set of callbacks that can be added and removed while events are being emitted.
type Listeners[F any] struct {
	mu    sync.Mutex
	next  uint64
	order []uint64
	fns   map[uint64]F
}

// Add registers fn and returns a cancel func. Cancel is idempotent.
func (l *Listeners[F]) Add(fn F) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[uint64]F)
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { l.remove(id) })
	}
}

func (l *Listeners[F]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.fns, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns the registered callbacks in registration order.
func (l *Listeners[F]) Snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]F, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.fns[id])
	}
	return out
}

// Len reports the number of registered callbacks.
func (l *Listeners[F]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}
