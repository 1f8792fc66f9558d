package auth

import "sync"

// Bus delivers session-change notifications in-process. The callback handler
// publishes the fresh session after every completed sign-in; logout publishes
// nothing. Subscribers run synchronously in subscription order, so a
// notification's work completes before the publisher returns.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(*Session)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(*Session))}
}

// Subscribe registers fn and returns its unsubscribe func. Callers own the
// teardown: register on start, unsubscribe on stop.
func (b *Bus) Subscribe(fn func(*Session)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus) Publish(sess *Session) {
	b.mu.Lock()
	fns := make([]func(*Session), 0, len(b.subs))
	for i := 0; i < b.nextID; i++ {
		if fn, ok := b.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}
