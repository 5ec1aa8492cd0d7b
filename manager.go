/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"context"
	"sync"
	"time"

	"github.com/ircclient/engine/events"
)

// DefaultDisconnectGrace bounds how long Remove (and so DisconnectAll)
// waits for a connection's Disconnect to return. Disconnect itself allows
// 100ms for the QUIT to be written before it closes the transport.
const DefaultDisconnectGrace = 3 * time.Second

// ConnectionManager owns every live Connection, keyed by its id, and the
// single event bus they all publish onto. Multiple readers may hold
// views of the directory; mutation is serialized by mu.
type ConnectionManager struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	bus   *events.Bus
}

// NewConnectionManager returns an empty manager owning a fresh event bus.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		conns: make(map[string]*Connection),
		bus:   events.NewBus(),
	}
}

// Events returns the bus shared by every connection this manager creates.
func (m *ConnectionManager) Events() *events.Bus {
	return m.bus
}

// Add dials address under opts, registers the resulting connection under
// its id, and starts registration. The connection's private bus is
// replaced with the manager's shared bus before Connect is called, so
// every subscriber sees every connection's events through one Events().
func (m *ConnectionManager) Add(ctx context.Context, address string, opts ...ConnectionOption) (*Connection, error) {
	conn, err := NewConnection(address, opts...)
	if err != nil {
		return nil, err
	}
	conn.bus = m.bus

	m.mu.Lock()
	if _, exists := m.conns[conn.id]; exists {
		m.mu.Unlock()
		return nil, ErrConnIDExists
	}
	m.conns[conn.id] = conn
	m.mu.Unlock()

	if err := conn.Connect(ctx); err != nil {
		m.mu.Lock()
		delete(m.conns, conn.id)
		m.mu.Unlock()
		return nil, err
	}

	return conn, nil
}

// Get returns the connection registered under id.
func (m *ConnectionManager) Get(id string) (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	conn, ok := m.conns[id]
	return conn, ok
}

// List returns every registered connection, in no particular order.
func (m *ConnectionManager) List() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Connection, 0, len(m.conns))
	for _, conn := range m.conns {
		out = append(out, conn)
	}
	return out
}

// First returns an arbitrary registered connection, for legacy
// single-server callers that address the facade without an explicit id.
func (m *ConnectionManager) First() (*Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, conn := range m.conns {
		return conn, true
	}
	return nil, false
}

// Remove drops the connection registered under id from the directory and
// disconnects it (QUIT with reason, then transport close), waiting at most
// DefaultDisconnectGrace for Disconnect to return.
func (m *ConnectionManager) Remove(id, reason string) error {
	m.mu.Lock()
	conn, ok := m.conns[id]
	if ok {
		delete(m.conns, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrUnknownConnID
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.Disconnect(reason)
	}()

	select {
	case <-done:
	case <-time.After(DefaultDisconnectGrace):
	}

	return nil
}

// DisconnectAll disconnects and removes every registered connection,
// waiting for each to complete (or its grace period to elapse).
func (m *ConnectionManager) DisconnectAll(reason string) {
	for _, conn := range m.List() {
		_ = m.Remove(conn.ID(), reason)
	}
}

// Len reports how many connections are currently registered.
func (m *ConnectionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
