// Package stream provides in-process snapshot publication. A publisher pushes
// the full current snapshot to every subscriber on each mutation; subscribers
// replace the value they hold, this is not a diff stream.
package stream

import "sync"

// Publisher fans a snapshot out to all active subscribers. Publishing never
// blocks: a subscriber that has not consumed the previous snapshot just gets
// it replaced with the latest one.
type Publisher[T any] struct {
	mu   sync.Mutex
	subs map[uint64]chan T
	next uint64
}

// NewPublisher creates an empty publisher
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{subs: make(map[uint64]chan T)}
}

// Subscribe registers a subscriber. The returned cancel func must be called
// when the subscriber goes away; it closes the channel.
func (p *Publisher[T]) Subscribe() (<-chan T, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.next
	p.next++

	ch := make(chan T, 1)
	p.subs[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if ch, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers the snapshot to every subscriber, replacing any snapshot
// they have not consumed yet
func (p *Publisher[T]) Publish(snapshot T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
