/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/btnmasher/random"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"github.com/ircclient/engine/ctcp"
	"github.com/ircclient/engine/events"
	"github.com/ircclient/engine/sasl"
)

// ConnState is a position in the connection's registration/liveness
// state machine.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateAuthenticating
	StateRegistered
	StateReconnecting
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateAuthenticating:
		return "Authenticating"
	case StateRegistered:
		return "Registered"
	case StateReconnecting:
		return "Reconnecting"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Connection owns one transport to one IRC server: registration, inbound
// dispatch, outbound serialization, liveness, and reconnection. Grounded
// on the teacher's connection.go reader/writer goroutine split
// (readLoop/writeLoop over a buffered writeQueue, a heartbeat timer),
// flipped from server-accepting-clients to client-dialing-server.
type Connection struct {
	id  string
	cfg *ConnectionConfig
	bus *events.Bus
	log *logrus.Entry

	mu    sync.RWMutex
	state ConnState
	sock  net.Conn

	session *SessionState

	authenticator        *sasl.Authenticator
	offeredCaps          CapabilitySet
	negotiatedCaps       CapabilitySet
	pendingSASLMechanism string

	writeQueue chan string
	flood      *floodBucket

	idleTimer               *time.Timer
	pongTimer               *time.Timer
	pendingDisconnectReason string

	kill chan struct{}
	wg   *conc.WaitGroup

	retries      *backoff
	ctcpResponder *ctcp.Responder
}

// NewConnection builds a Connection targeting address, configured by
// opts. It does not dial -- call Connect to do that.
func NewConnection(address string, opts ...ConnectionOption) (*Connection, error) {
	cfg := defaultConnectionConfig(address)
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()

	return &Connection{
		id:      id,
		cfg:     cfg,
		bus:     events.NewBus(),
		log:     cfg.Logger.WithField("conn_id", id).WithField("address", address),
		state:   StateDisconnected,
		session:       NewSessionState(cfg.Nick),
		flood:         newFloodBucket(cfg.FloodRate, cfg.FloodBurst),
		retries:       newBackoff(DefaultReconnectBase, DefaultReconnectCap, ReconnectJitter),
		ctcpResponder: ctcp.NewResponder(cfg.CTCPInfo),
	}, nil
}

// ID returns the connection's stable identifier.
func (c *Connection) ID() string { return c.id }

// State returns the connection's current state-machine position.
func (c *Connection) State() ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Session returns the connection's SessionState.
func (c *Connection) Session() *SessionState {
	return c.session
}

// Events returns the connection's event bus. ConnectionManager.Add
// replaces the connection's own bus with the manager's shared one.
func (c *Connection) Events() *events.Bus {
	return c.bus
}

func (c *Connection) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.bus.Emit(events.StateChanged{ConnID: c.id, State: s.String()})
}

// Connect dials the server, completes registration, and launches the
// reader/writer tasks. It returns once registration succeeds or ctx is
// canceled; afterwards, the connection maintains itself (reconnecting on
// transport errors) in a background goroutine supervised by wg.
func (c *Connection) Connect(ctx context.Context) error {
	if s := c.State(); s != StateDisconnected && s != StateFailed {
		return ErrAlreadyConnected
	}

	c.kill = make(chan struct{})
	c.wg = conc.NewWaitGroup()

	registered := make(chan error, 1)
	c.wg.Go(func() { c.runSupervised(ctx, registered) })

	select {
	case err := <-registered:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runSupervised drives the connect/register/reconnect loop until ctx is
// canceled or the connection is explicitly disconnected. firstResult
// receives the outcome of the very first registration attempt only.
func (c *Connection) runSupervised(ctx context.Context, firstResult chan<- error) {
	defer func() {
		if r := recover(); r != nil {
			c.bus.Emit(events.Error{ConnID: c.id, Reason: fmt.Sprintf("panic: %v", r)})
		}
	}()

	first := true

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.kill:
			return
		default:
		}

		c.setState(StateConnecting)
		err := c.connectOnce(ctx)

		if first {
			firstResult <- err
			first = false
		}

		if err == nil {
			c.retries.Reset()
			c.blockUntilDone(ctx)
		}

		select {
		case <-ctx.Done():
			return
		case <-c.kill:
			return
		default:
		}

		c.setState(StateReconnecting)
		delay := c.retries.Next()
		c.log.WithField("delay", delay).Warn("reconnecting")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		case <-c.kill:
			return
		}
	}
}

// connectOnce performs exactly one dial-through-registration attempt.
func (c *Connection) connectOnce(ctx context.Context) error {
	dialer := &net.Dialer{Timeout: c.cfg.DialTimeout}
	addr := net.JoinHostPort(c.cfg.Address, strconv.Itoa(c.cfg.Port))

	var sock net.Conn
	var err error

	if c.cfg.UseTLS {
		tlsCfg := cloneClientTLSConfig(c.cfg.TLSConfig)
		tlsCfg.InsecureSkipVerify = c.cfg.SkipTLSVerify
		tlsCfg.ServerName = c.cfg.Address

		rawSock, dialErr := dialer.DialContext(ctx, "tcp", addr)
		if dialErr != nil {
			return fmt.Errorf("%w: %v", ErrResolveFailed, dialErr)
		}

		tlsConn := tls.Client(rawSock, tlsCfg)
		if hsErr := tlsConn.HandshakeContext(ctx); hsErr != nil {
			rawSock.Close()
			return fmt.Errorf("%w: %v", ErrTLSHandshake, hsErr)
		}
		sock = tlsConn
	} else {
		sock, err = dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrResolveFailed, err)
		}
	}

	c.mu.Lock()
	c.sock = sock
	c.writeQueue = make(chan string, c.cfg.WriteQueueLen)
	c.authenticator = sasl.NewAuthenticator(sasl.NewRegistry())
	c.offeredCaps = NewCapabilitySet()
	c.negotiatedCaps = NewCapabilitySet()
	c.mu.Unlock()

	c.setState(StateAuthenticating)
	queue := c.writeQueue
	c.wg.Go(func() { c.writeLoop(queue) })

	if err := c.beginRegistration(); err != nil {
		sock.Close()
		return err
	}

	c.armIdleTimer()
	readDone := make(chan struct{})
	c.wg.Go(func() {
		defer close(readDone)
		c.readLoop()
	})

	select {
	case <-readDone:
		return ErrTransportFailed
	case <-c.registeredSignal(ctx):
		return nil
	}
}

// registeredSignal returns a channel closed once the connection reaches
// StateRegistered (or ctx is canceled).
func (c *Connection) registeredSignal(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if c.State() == StateRegistered {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// blockUntilDone waits for the current connection attempt to end,
// i.e. for the transport to fail or an explicit disconnect.
func (c *Connection) blockUntilDone(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-c.kill:
	case <-c.transportDown():
	}
}

func (c *Connection) transportDown() <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if s := c.State(); s == StateDisconnected || s == StateReconnecting || s == StateFailed {
				return
			}
		}
	}()
	return ch
}

func (c *Connection) beginRegistration() error {
	if err := c.enqueue(CapLsCmd{}); err != nil {
		return err
	}
	if c.cfg.Password != "" {
		if err := c.enqueue(PassCmd{Password: c.cfg.Password}); err != nil {
			return err
		}
	}
	if err := c.enqueue(NickCmd{Nick: c.cfg.Nick}); err != nil {
		return err
	}
	if err := c.enqueue(UserCmd{Username: c.cfg.Username, Realname: c.cfg.Realname}); err != nil {
		return err
	}
	return nil
}

// readLoop reads and dispatches inbound lines until the transport fails.
// On an unplanned exit (anything other than Disconnect closing c.kill
// first) it emits events.Disconnected with the failure reason before
// handing off to the reconnect loop.
func (c *Connection) readLoop() {
	reader := bufio.NewScanner(c.sock)
	reader.Buffer(make([]byte, MaxMsgLength+MaxTagsLength), MaxMsgLength+MaxTagsLength)

	for reader.Scan() {
		c.armIdleTimer()

		line := reader.Text()
		msg, err := Parse(line)
		if err != nil {
			c.log.WithError(err).WithField("line", line).Warn("discarding unparseable message")
			continue
		}

		c.dispatch(msg)
		msg.Recycle()
	}

	reason := "connection closed"
	if err := reader.Err(); err != nil {
		c.log.WithError(err).Warn("transport read error")
		reason = err.Error()
	}

	c.mu.Lock()
	if c.pendingDisconnectReason != "" {
		reason = c.pendingDisconnectReason
		c.pendingDisconnectReason = ""
	}
	c.mu.Unlock()

	select {
	case <-c.kill:
		// Disconnect already owns this teardown and will emit its own
		// Disconnected event once the socket finishes closing.
		return
	default:
	}

	c.bus.Emit(events.Disconnected{ConnID: c.id, Reason: reason})
	c.setState(StateReconnecting)
}

// writeLoop serializes every outbound message from queue onto the
// transport, gated by the flood-control token bucket. queue is the
// writeQueue captured at the start of the connection attempt that
// spawned this loop, so a later reconnect's fresh queue gets its own
// writeLoop rather than racing this one.
func (c *Connection) writeLoop(queue chan string) {
	for {
		select {
		case <-c.kill:
			return
		case line, ok := <-queue:
			if !ok {
				return
			}
			c.flood.Take()
			c.writeLine(line)
		}
	}
}

func (c *Connection) writeLine(line string) {
	c.mu.RLock()
	sock := c.sock
	c.mu.RUnlock()

	if sock == nil {
		return
	}
	if _, err := sock.Write([]byte(line)); err != nil {
		c.log.WithError(err).Warn("write failed")
		return
	}
	c.bus.Emit(events.MessageSent{ConnID: c.id, Raw: line})
}

// enqueue renders cmd and hands it to the writer task, failing fast with
// ErrBackpressure if the bounded write queue is full.
func (c *Connection) enqueue(cmd Command) error {
	msg := cmd.ToMessage()
	line := msg.Render()
	msg.Recycle()

	c.mu.RLock()
	queue := c.writeQueue
	c.mu.RUnlock()

	if queue == nil {
		return ErrDisconnectedTx
	}

	select {
	case queue <- line:
		return nil
	default:
		return ErrBackpressure
	}
}

// Send enqueues cmd for transmission.
func (c *Connection) Send(cmd Command) error {
	if c.State() == StateDisconnected {
		return ErrDisconnectedTx
	}
	return c.enqueue(cmd)
}

// SendRaw enqueues command and params, unparsed, in a RawCmd envelope.
func (c *Connection) SendRaw(command string, params ...string) error {
	return c.Send(RawCmd{Command: command, Params: params})
}

// Disconnect sends QUIT (if the transport is up) and tears the
// connection down, preventing further reconnection attempts.
func (c *Connection) Disconnect(reason string) error {
	if c.State() != StateDisconnected {
		_ = c.enqueue(QuitCmd{Reason: reason})
		time.Sleep(100 * time.Millisecond)
	}

	c.mu.Lock()
	sock := c.sock
	kill := c.kill
	c.mu.Unlock()

	if kill != nil {
		select {
		case <-kill:
		default:
			close(kill)
		}
	}
	if sock != nil {
		sock.Close()
	}

	c.setState(StateDisconnected)
	if c.wg != nil {
		c.wg.Wait()
	}

	c.bus.Emit(events.Disconnected{ConnID: c.id, Reason: reason})
	return nil
}

// armIdleTimer (re)starts the idle-liveness timer; on expiry the
// connection originates a PING and arms the pong-timeout.
func (c *Connection) armIdleTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.idleTimer != nil {
		c.idleTimer.Stop()
	}
	c.idleTimer = time.AfterFunc(c.cfg.IdleTimeout, c.onIdleTimeout)
}

func (c *Connection) onIdleTimeout() {
	token := random.String(10)
	if err := c.enqueue(PingCmd{Token: token}); err != nil {
		return
	}
	c.bus.Emit(events.PongRequired{ConnID: c.id, Token: token})

	c.mu.Lock()
	if c.pongTimer != nil {
		c.pongTimer.Stop()
	}
	c.pongTimer = time.AfterFunc(c.cfg.PongTimeout, c.onPongTimeout)
	c.mu.Unlock()
}

// onPongTimeout fires when no PONG answers our liveness PING within
// PongTimeout. It records the failure reason for readLoop to surface on
// the Disconnected event it emits once the closed socket unblocks Scan.
func (c *Connection) onPongTimeout() {
	c.log.Warn(string(ErrPingTimeout))

	c.mu.Lock()
	c.pendingDisconnectReason = string(ErrPingTimeout)
	sock := c.sock
	c.mu.Unlock()

	if sock != nil {
		sock.Close()
	}
}

func (c *Connection) clearPongTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pongTimer != nil {
		c.pongTimer.Stop()
		c.pongTimer = nil
	}
}

// cloneClientTLSConfig returns a shallow clone of cfg's exported fields,
// adapted from the teacher's cloneTLSConfig (server.go) for client-side
// dialing; a nil cfg yields an empty tls.Config so the system trust
// store is used, rather than any embedded root set -- no such library
// exists in the corpus (see DESIGN.md).
func cloneClientTLSConfig(cfg *tls.Config) *tls.Config {
	if cfg == nil {
		return &tls.Config{}
	}
	clone := cfg.Clone()
	if clone == nil {
		return &tls.Config{}
	}
	return clone
}
