/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package events

import "sync"

// Handler receives a published Event. It should not block for long --
// deferring slow work to its own goroutine is the handler's
// responsibility, not the bus's.
type Handler func(Event)

type subscriber struct {
	id       uint64
	priority int
	handler  Handler
}

// Bus is a synchronous, priority-ordered publish/subscribe dispatcher.
// Emit walks subscribers in descending-priority order on the caller's
// goroutine, so a subscriber observes every earlier event before the
// next one is dispatched. A Bus is safe for concurrent Subscribe,
// Unsubscribe, and Emit calls, and is owned by one ConnectionManager and
// shared by reference with every Connection it creates.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler at priority (higher runs first) and
// returns a token Unsubscribe can later use to remove it.
func (b *Bus) Subscribe(priority int, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	b.subs = append(b.subs, subscriber{id: id, priority: priority, handler: handler})
	b.sortLocked()

	return id
}

// Unsubscribe removes a previously registered handler by its token.
func (b *Bus) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit dispatches event to every subscriber in descending-priority order,
// sequentially, on the caller's goroutine.
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	// Copy the slice header under the lock so a concurrent
	// Subscribe/Unsubscribe during dispatch cannot race the iteration.
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

func (b *Bus) sortLocked() {
	// Stable insertion sort: subscriber counts per bus are small, and
	// stability preserves registration order among equal priorities.
	for i := 1; i < len(b.subs); i++ {
		for j := i; j > 0 && b.subs[j-1].priority < b.subs[j].priority; j-- {
			b.subs[j-1], b.subs[j] = b.subs[j], b.subs[j-1]
		}
	}
}
