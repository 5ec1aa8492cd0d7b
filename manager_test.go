/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	irc "github.com/ircclient/engine"
	"github.com/ircclient/engine/events"
)

// addThroughManager drives a ConnectionManager.Add call to completion
// against server, playing the server side of the registration handshake.
func addThroughManager(t *testing.T, mgr *irc.ConnectionManager, server *fakeServer, nick string) *irc.Connection {
	t.Helper()
	accepted := server.acceptAsync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		conn *irc.Connection
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		conn, err := mgr.Add(ctx, server.host,
			irc.WithPort(server.port),
			irc.WithIdentity(nick, nick, nick),
			irc.WithTimeouts(time.Minute, time.Minute),
		)
		resultCh <- result{conn, err}
	}()

	var sock net.Conn
	select {
	case sock = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("fake server never accepted a connection")
	}
	defer sock.Close()

	reader := bufio.NewScanner(sock)
	require.True(t, reader.Scan()) // CAP LS
	_, _ = sock.Write([]byte("CAP * LS :\r\n"))
	require.True(t, reader.Scan()) // NICK
	require.True(t, reader.Scan()) // USER
	_, _ = sock.Write([]byte(":fakeserver 001 " + nick + " :Welcome\r\n"))

	var r result
	select {
	case r = <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("manager.Add never completed")
	}
	require.NoError(t, r.err)
	require.NotNil(t, r.conn)
	return r.conn
}

func TestConnectionManagerAddRegistersAndTracks(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	mgr := irc.NewConnectionManager()
	assert.Equal(t, 0, mgr.Len())

	conn := addThroughManager(t, mgr, server, "listnick")
	defer func() { _ = conn.Disconnect("done") }()

	assert.Equal(t, 1, mgr.Len())

	list := mgr.List()
	require.Len(t, list, 1)
	assert.Equal(t, conn.ID(), list[0].ID())

	got, ok := mgr.Get(conn.ID())
	require.True(t, ok)
	assert.Equal(t, conn, got)

	first, ok := mgr.First()
	require.True(t, ok)
	assert.Equal(t, conn.ID(), first.ID())
}

func TestConnectionManagerGetUnknownID(t *testing.T) {
	mgr := irc.NewConnectionManager()
	_, ok := mgr.Get("does-not-exist")
	assert.False(t, ok)
}

func TestConnectionManagerFirstOnEmptyManager(t *testing.T) {
	mgr := irc.NewConnectionManager()
	_, ok := mgr.First()
	assert.False(t, ok)
}

func TestConnectionManagerRemoveUnknownID(t *testing.T) {
	mgr := irc.NewConnectionManager()
	err := mgr.Remove("does-not-exist", "bye")
	assert.ErrorIs(t, err, irc.ErrUnknownConnID)
}

func TestConnectionManagerRemoveDropsFromDirectory(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	mgr := irc.NewConnectionManager()
	conn := addThroughManager(t, mgr, server, "removenick")

	require.NoError(t, mgr.Remove(conn.ID(), "goodbye"))
	assert.Equal(t, 0, mgr.Len())

	_, ok := mgr.Get(conn.ID())
	assert.False(t, ok)
}

func TestConnectionManagerBusReceivesConnectionEvents(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	mgr := irc.NewConnectionManager()

	var seen int
	mgr.Events().Subscribe(0, func(e events.Event) {
		if e.Kind() == "Connected" {
			seen++
		}
	})

	conn := addThroughManager(t, mgr, server, "busnick")
	defer func() { _ = conn.Disconnect("done") }()

	assert.Equal(t, 1, seen)
}
