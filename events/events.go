/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package events implements the client engine's publish/subscribe bus:
// every state change a connection observes is published here once its
// effect on SessionState has already been applied.
package events

// Event is the tagged-variant interface every published event satisfies.
// Kind identifies which concrete type the value holds, for subscribers
// that switch on it without a type assertion.
type Event interface {
	Kind() string
}

// Connected fires once a connection completes registration (numeric 001).
type Connected struct {
	ConnID string
}

func (Connected) Kind() string { return "Connected" }

// Disconnected fires when a connection's transport is dropped.
type Disconnected struct {
	ConnID string
	Reason string
}

func (Disconnected) Kind() string { return "Disconnected" }

// StateChanged fires on every connection state-machine transition.
type StateChanged struct {
	ConnID string
	State  string
}

func (StateChanged) Kind() string { return "StateChanged" }

// MessageReceived fires for every inbound Message, after SessionState has
// been updated.
type MessageReceived struct {
	ConnID string
	Raw    string
}

func (MessageReceived) Kind() string { return "MessageReceived" }

// MessageSent fires for every outbound Message actually written to the
// transport.
type MessageSent struct {
	ConnID string
	Raw    string
}

func (MessageSent) Kind() string { return "MessageSent" }

// ChannelJoined fires when this connection's own JOIN is acknowledged.
type ChannelJoined struct {
	ConnID  string
	Channel string
}

func (ChannelJoined) Kind() string { return "ChannelJoined" }

// ChannelLeft fires when this connection leaves a channel (PART or KICK).
type ChannelLeft struct {
	ConnID  string
	Channel string
}

func (ChannelLeft) Kind() string { return "ChannelLeft" }

// UserJoined fires when another user joins a channel this connection is
// in.
type UserJoined struct {
	ConnID  string
	Channel string
	Nick    string
}

func (UserJoined) Kind() string { return "UserJoined" }

// UserLeft fires when another user leaves a channel this connection is
// in (PART, KICK, or QUIT).
type UserLeft struct {
	ConnID  string
	Channel string
	Nick    string
}

func (UserLeft) Kind() string { return "UserLeft" }

// NickChanged fires on any NICK message concerning a tracked user.
type NickChanged struct {
	ConnID string
	Old    string
	New    string
}

func (NickChanged) Kind() string { return "NickChanged" }

// TopicChanged fires on RPL_TOPIC or a live TOPIC message.
type TopicChanged struct {
	ConnID  string
	Channel string
	Topic   string
}

func (TopicChanged) Kind() string { return "TopicChanged" }

// PongRequired fires when the connection has sent a PING and is waiting
// on the matching PONG -- useful for liveness dashboards.
type PongRequired struct {
	ConnID string
	Token  string
}

func (PongRequired) Kind() string { return "PongRequired" }

// Error fires for any recovered panic or terminal error a connection
// hits outside its normal state machine. ConnID is empty for errors with
// no specific connection (e.g. a manager-level failure).
type Error struct {
	ConnID string
	Reason string
}

func (Error) Kind() string { return "Error" }
