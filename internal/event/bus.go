package event

import "sync"

// Listener consumes events.
type Listener func(ev Event)

type subscription struct {
	id       int
	listener Listener
}

// Bus is a synchronous observer list.
// Listeners fire in registration order, once per Publish.
// Unsubscribing (or subscribing) from inside a listener is safe: dispatch
// works on a snapshot taken when Publish starts.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers listener and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(listener Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, listener: listener})

	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			// new slice so in-flight snapshots stay intact
			subs := make([]subscription, 0, len(b.subs)-1)
			subs = append(subs, b.subs[:i]...)
			b.subs = append(subs, b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to all current listeners.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	snapshot := b.subs
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.listener(ev)
	}
}

// Len returns number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
