package store

import "sync"

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// notifier fans a value out to registered listeners.
type notifier[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []subscription[T]
}

func (n *notifier[T]) subscribe(fn func(T)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, subscription[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { n.unsubscribe(id) })
	}
}

func (n *notifier[T]) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, sub := range n.listeners {
		if sub.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

func (n *notifier[T]) notify(value T) {
	n.mu.Lock()
	listeners := append([]subscription[T](nil), n.listeners...)
	n.mu.Unlock()
	for _, sub := range listeners {
		sub.fn(value)
	}
}
