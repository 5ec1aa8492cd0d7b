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
)

// connectThroughClient drives a Client.Connect call to completion against
// server, playing the server side of the registration handshake.
func connectThroughClient(t *testing.T, client *irc.Client, server *fakeServer, nick string, connOpts ...irc.ConnectionOption) string {
	t.Helper()
	accepted := server.acceptAsync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := append([]irc.ConnectionOption{
		irc.WithIdentity(nick, nick, nick),
		irc.WithTimeouts(time.Minute, time.Minute),
	}, connOpts...)

	type result struct {
		id  string
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		id, err := client.Connect(ctx, server.host, server.port, opts...)
		resultCh <- result{id, err}
	}()

	var sock net.Conn
	select {
	case sock = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("fake server never accepted a connection")
	}
	defer sock.Close()

	reader := bufio.NewScanner(sock)
	require.True(t, reader.Scan())
	_, _ = sock.Write([]byte("CAP * LS :\r\n"))
	require.True(t, reader.Scan())
	require.True(t, reader.Scan())
	_, _ = sock.Write([]byte(":fakeserver 001 " + nick + " :Welcome\r\n"))

	var r result
	select {
	case r = <-resultCh:
	case <-time.After(2 * time.Second):
		t.Fatal("client.Connect never completed")
	}
	require.NoError(t, r.err)
	require.NotEmpty(t, r.id)
	return r.id
}

func TestClientConnectAndSession(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	client := irc.NewClient()
	id := connectThroughClient(t, client, server, "clientnick")
	defer client.DisconnectAll("done")

	session, err := client.Session(id)
	require.NoError(t, err)
	assert.Equal(t, "clientnick", session.LocalNick())

	sessionDefault, err := client.Session("")
	require.NoError(t, err)
	assert.Same(t, session, sessionDefault)
}

func TestClientResolveUnknownID(t *testing.T) {
	client := irc.NewClient()
	_, err := client.Session("does-not-exist")
	assert.ErrorIs(t, err, irc.ErrUnknownConnID)
}

func TestClientResolveNoConnections(t *testing.T) {
	client := irc.NewClient()
	_, err := client.Session("")
	assert.ErrorIs(t, err, irc.ErrNoConnections)
}

func TestClientJoinAndPrivmsgEnqueueCommands(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	client := irc.NewClient()
	id := connectThroughClient(t, client, server, "joinnick")
	defer client.DisconnectAll("done")

	assert.NoError(t, client.Join(id, "#chan"))
	assert.NoError(t, client.Privmsg(id, "#chan", "hello there"))
	assert.NoError(t, client.SendRaw(id, "WHOIS", "someone"))
}

func TestClientPrivmsgChunksOverlongText(t *testing.T) {
	server, err := newFakeServer()
	require.NoError(t, err)
	defer server.close()

	client := irc.NewClient()
	id := connectThroughClient(t, client, server, "chunknick")
	defer client.DisconnectAll("done")

	word := "supercalifragilisticexpialidocious"
	var fields []string
	for i := 0; i < 30; i++ {
		fields = append(fields, word)
	}
	longText := ""
	for i, w := range fields {
		if i > 0 {
			longText += " "
		}
		longText += w
	}

	assert.NoError(t, client.Privmsg(id, "#chan", longText))
}

func TestClientStringReportsConnectionCount(t *testing.T) {
	client := irc.NewClient()
	assert.Equal(t, "Client{connections:0}", client.String())
}
