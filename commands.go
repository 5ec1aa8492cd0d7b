/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"strconv"
	"strings"
)

// Command name constants referenced by the dispatch table and by the
// catalog below.
const (
	CmdPrivMsg = "PRIVMSG"
	CmdNotice  = "NOTICE"
	CmdNick    = "NICK"
	CmdUser    = "USER"
	CmdPass    = "PASS"
	CmdQuit    = "QUIT"
	CmdJoin    = "JOIN"
	CmdPart    = "PART"
	CmdKick    = "KICK"
	CmdTopic   = "TOPIC"
	CmdNames   = "NAMES"
	CmdList    = "LIST"
	CmdWho     = "WHO"
	CmdWhois   = "WHOIS"
	CmdWhowas  = "WHOWAS"
	CmdMode    = "MODE"
	CmdPing    = "PING"
	CmdPong    = "PONG"
	CmdCap     = "CAP"
	CmdAuth    = "AUTHENTICATE"
	CmdError   = "ERROR"
	CmdAccount = "ACCOUNT"
	CmdAway    = "AWAY"
)

// Command is a typed representation of an outgoing IRC command. Each
// variant's ToMessage produces a Message ready for the wire codec.
type Command interface {
	ToMessage() *Message
}

// NickCmd requests a nickname change (or sets the initial nickname during
// registration).
type NickCmd struct {
	Nick string
}

func (c NickCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdNick
	m.AddParam(c.Nick)
	return m
}

// UserCmd completes the registration handshake. The middle two
// parameters are fixed per RFC 2812 (a legacy user-mode bitmask and an
// unused placeholder); only Username and Realname are meaningful today.
type UserCmd struct {
	Username string
	Realname string
}

func (c UserCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdUser
	m.AddParam(c.Username)
	m.AddParam("0")
	m.AddParam("*")
	m.AddTrailing(c.Realname)
	return m
}

// PassCmd supplies a server password, sent before NICK/USER.
type PassCmd struct {
	Password string
}

func (c PassCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdPass
	m.AddParam(c.Password)
	return m
}

// QuitCmd disconnects from the server with an optional reason.
type QuitCmd struct {
	Reason string
}

func (c QuitCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdQuit
	if c.Reason != "" {
		m.AddTrailing(c.Reason)
	}
	return m
}

// JoinCmd joins one or more channels. Channels and Keys are each joined
// with commas into a single parameter. Keys may be shorter than
// Channels -- trailing channels simply have no key -- but not longer.
type JoinCmd struct {
	Channels []string
	Keys     []string
}

func (c JoinCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdJoin
	m.AddParam(strings.Join(c.Channels, ","))
	if len(c.Keys) > 0 {
		m.AddParam(strings.Join(c.Keys, ","))
	}
	return m
}

// PartCmd leaves one or more channels with an optional shared reason.
type PartCmd struct {
	Channels []string
	Reason   string
}

func (c PartCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdPart
	m.AddParam(strings.Join(c.Channels, ","))
	if c.Reason != "" {
		m.AddTrailing(c.Reason)
	}
	return m
}

// TopicCmd queries (Topic == nil) or sets (Topic != nil) a channel's
// topic.
type TopicCmd struct {
	Channel string
	Topic   *string
}

func (c TopicCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdTopic
	m.AddParam(c.Channel)
	if c.Topic != nil {
		m.AddTrailing(*c.Topic)
	}
	return m
}

// NamesCmd requests the member list of one or more channels.
type NamesCmd struct {
	Channels []string
}

func (c NamesCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdNames
	if len(c.Channels) > 0 {
		m.AddParam(strings.Join(c.Channels, ","))
	}
	return m
}

// ListCmd requests the server's channel list, optionally filtered.
type ListCmd struct {
	Channels []string
}

func (c ListCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdList
	if len(c.Channels) > 0 {
		m.AddParam(strings.Join(c.Channels, ","))
	}
	return m
}

// PrivmsgCmd sends a message to a channel or nickname.
type PrivmsgCmd struct {
	Target string
	Text   string
}

func (c PrivmsgCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdPrivMsg
	m.AddParam(c.Target)
	m.AddTrailing(c.Text)
	return m
}

// NoticeCmd sends a notice to a channel or nickname.
type NoticeCmd struct {
	Target string
	Text   string
}

func (c NoticeCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdNotice
	m.AddParam(c.Target)
	m.AddTrailing(c.Text)
	return m
}

// WhoCmd requests WHO information for a mask.
type WhoCmd struct {
	Mask string
}

func (c WhoCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdWho
	if c.Mask != "" {
		m.AddParam(c.Mask)
	}
	return m
}

// WhoisCmd requests WHOIS information for a nickname.
type WhoisCmd struct {
	Nick string
}

func (c WhoisCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdWhois
	m.AddParam(c.Nick)
	return m
}

// WhowasCmd requests WHOWAS history for a nickname.
type WhowasCmd struct {
	Nick  string
	Count int
}

func (c WhowasCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdWhowas
	m.AddParam(c.Nick)
	if c.Count > 0 {
		m.AddParam(strconv.Itoa(c.Count))
	}
	return m
}

// PingCmd originates a liveness probe carrying an opaque token.
type PingCmd struct {
	Token string
}

func (c PingCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdPing
	m.AddTrailing(c.Token)
	return m
}

// PongCmd answers a server PING, echoing its token verbatim.
type PongCmd struct {
	Token string
}

func (c PongCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdPong
	m.AddTrailing(c.Token)
	return m
}

// CapLsCmd begins IRCv3 capability negotiation, requesting the full
// multi-line capability listing.
type CapLsCmd struct{}

func (c CapLsCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("LS")
	m.AddParam("302")
	return m
}

// CapListCmd lists the capabilities currently in effect for the
// connection.
type CapListCmd struct{}

func (c CapListCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("LIST")
	return m
}

// CapReqCmd requests a set of capabilities in a single round trip.
type CapReqCmd struct {
	Capabilities []Capability
}

func (c CapReqCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("REQ")
	m.AddTrailing(joinCaps(c.Capabilities))
	return m
}

// CapAckCmd acknowledges a set of capabilities the server has offered,
// completing its side of a CAP REQ round trip. Included for catalog
// completeness and wire round-tripping; a client only ever receives ACK,
// it doesn't originate one during normal negotiation.
type CapAckCmd struct {
	Capabilities []Capability
}

func (c CapAckCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("ACK")
	m.AddTrailing(joinCaps(c.Capabilities))
	return m
}

// CapNakCmd rejects a set of capabilities the server has offered.
// Included for catalog completeness and wire round-tripping; a client
// only ever receives NAK, it doesn't originate one during normal
// negotiation.
type CapNakCmd struct {
	Capabilities []Capability
}

func (c CapNakCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("NAK")
	m.AddTrailing(joinCaps(c.Capabilities))
	return m
}

// CapEndCmd ends capability negotiation and proceeds to registration.
type CapEndCmd struct{}

func (c CapEndCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdCap
	m.AddParam("END")
	return m
}

// AuthenticateCmd sends one AUTHENTICATE chunk. Payload is either a
// pre-encoded base64 chunk or "+" for an empty chunk; see package sasl
// for the 400-octet chunking rules.
type AuthenticateCmd struct {
	Payload string
}

func (c AuthenticateCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdAuth
	m.AddParam(c.Payload)
	return m
}

// ModeCmd queries or applies a mode change to a channel or user.
type ModeCmd struct {
	Target     string
	ModeString string
	Args       []string
}

func (c ModeCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = CmdMode
	m.AddParam(c.Target)
	if c.ModeString != "" {
		m.AddParam(c.ModeString)
	}
	for _, a := range c.Args {
		m.AddParam(a)
	}
	return m
}

// RawCmd is the escape hatch for commands the catalog does not model
// explicitly.
type RawCmd struct {
	Command     string
	Params      []string
	Trailing    string
	HasTrailing bool
}

func (c RawCmd) ToMessage() *Message {
	m := NewMessage()
	m.Command = strings.ToUpper(c.Command)
	for _, p := range c.Params {
		m.AddParam(p)
	}
	if c.HasTrailing {
		m.AddTrailing(c.Trailing)
	}
	return m
}

func joinCaps(caps []Capability) string {
	strs := make([]string, len(caps))
	for i, c := range caps {
		strs[i] = string(c)
	}
	return strings.Join(strs, " ")
}
