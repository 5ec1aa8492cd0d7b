/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ircclient/engine/events"
	"github.com/ircclient/engine/shared/stringutils"
)

// ClientConfig holds process-wide defaults applied to every connection
// the facade dials, on top of whatever per-connection options the caller
// supplies to Connect.
type ClientConfig struct {
	Logger *logrus.Entry
}

// ClientOption configures a ClientConfig during NewClient.
type ClientOption func(*ClientConfig)

// WithClientLogger overrides the base logger every connection's entry is
// derived from.
func WithClientLogger(logger *logrus.Entry) ClientOption {
	return func(c *ClientConfig) { c.Logger = logger }
}

// Client is the top-level facade: it owns a ConnectionManager and the
// shared event bus, and exposes the high-level operations a host
// application drives the engine with.
type Client struct {
	cfg     *ClientConfig
	manager *ConnectionManager
}

// NewClient returns a Client ready to dial connections.
func NewClient(opts ...ClientOption) *Client {
	cfg := &ClientConfig{Logger: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		cfg:     cfg,
		manager: NewConnectionManager(),
	}
}

// Manager returns the client's ConnectionManager.
func (cl *Client) Manager() *ConnectionManager {
	return cl.manager
}

// Events returns the event bus shared by every connection the client
// manages.
func (cl *Client) Events() *events.Bus {
	return cl.manager.Events()
}

// Connect dials server:port, completes registration under connOpts, and
// returns the new connection's id. It blocks until registration succeeds
// or ctx is canceled.
func (cl *Client) Connect(ctx context.Context, server string, port int, connOpts ...ConnectionOption) (string, error) {
	opts := append([]ConnectionOption{
		WithPort(port),
		WithConnectionLogger(cl.cfg.Logger),
	}, connOpts...)

	conn, err := cl.manager.Add(ctx, server, opts...)
	if err != nil {
		return "", err
	}
	return conn.ID(), nil
}

// DisconnectAll disconnects and removes every managed connection.
func (cl *Client) DisconnectAll(reason string) {
	cl.manager.DisconnectAll(reason)
}

// resolve picks the connection addressed by id, or -- for legacy
// single-server callers that pass an empty id -- the first one
// available. It errors if the manager has no connections at all.
func (cl *Client) resolve(id string) (*Connection, error) {
	if id != "" {
		conn, ok := cl.manager.Get(id)
		if !ok {
			return nil, ErrUnknownConnID
		}
		return conn, nil
	}

	conn, ok := cl.manager.First()
	if !ok {
		return nil, ErrNoConnections
	}
	return conn, nil
}

// SendCommand enqueues cmd for transmission on the connection addressed
// by id (or the first available connection, if id is empty).
func (cl *Client) SendCommand(id string, cmd Command) error {
	conn, err := cl.resolve(id)
	if err != nil {
		return err
	}
	return conn.Send(cmd)
}

// SendRaw enqueues an arbitrary command line on the connection addressed
// by id (or the first available connection, if id is empty).
func (cl *Client) SendRaw(id, command string, params ...string) error {
	conn, err := cl.resolve(id)
	if err != nil {
		return err
	}
	return conn.SendRaw(command, params...)
}

// Join joins channel on the connection addressed by id (or the first
// available connection, if id is empty).
func (cl *Client) Join(id, channel string) error {
	return cl.SendCommand(id, JoinCmd{Channels: []string{channel}})
}

// Privmsg sends text to target on the connection addressed by id (or the
// first available connection, if id is empty). Text longer than
// MaxPrivmsgChunk is split on word boundaries into multiple PRIVMSGs so no
// single line risks the server's 512-octet truncation.
func (cl *Client) Privmsg(id, target, text string) error {
	conn, err := cl.resolve(id)
	if err != nil {
		return err
	}

	chunks := stringutils.ChunkJoinStrings(MaxPrivmsgChunk, " ", strings.Fields(text)...)
	if len(chunks) == 0 {
		chunks = []string{text}
	}

	for _, chunk := range chunks {
		if err := conn.Send(PrivmsgCmd{Target: target, Text: chunk}); err != nil {
			return err
		}
	}
	return nil
}

// Session returns the SessionState of the connection addressed by id (or
// the first available connection, if id is empty).
func (cl *Client) Session(id string) (*SessionState, error) {
	conn, err := cl.resolve(id)
	if err != nil {
		return nil, err
	}
	return conn.Session(), nil
}

// String satisfies fmt.Stringer for diagnostic logging of a client's
// current connection count.
func (cl *Client) String() string {
	return fmt.Sprintf("Client{connections:%d}", cl.manager.Len())
}
