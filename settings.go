/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import "time"

// Limiter constants (RFC 1459/2812 + IRCv3 wire limits).
const (
	// Messages
	MaxMsgLength  int = 512
	MaxMsgParams      = 15
	MaxTagsLength int = 4096

	// Channels
	MaxChanLength  = 16
	MaxKickLength  = 400
	MaxTopicLength = 400
	MaxListItems   = 256
	MaxModeChange  = 6

	// Users
	MaxNickLength  = 16
	MaxUserLength  = 16
	MaxJoinedChans = 32
	MaxAwayLength  = 100

	// AuthenticateChunkSize is the maximum payload size, in base64-encoded
	// octets, of a single AUTHENTICATE line before it must be split into
	// another chunk (see spec.md section 6, SASL framing).
	AuthenticateChunkSize = 400

	// MaxPrivmsgChunk is the conservative text budget Client.Privmsg
	// chunks an overlong message into, leaving headroom in the 512-octet
	// wire limit for the PRIVMSG command, target, and CRLF.
	MaxPrivmsgChunk = 400
)

// Default CTCP responder metadata, answered to VERSION/SOURCE/FINGER/
// USERINFO requests until overridden with WithCTCPInfo.
const (
	DefaultCTCPVersion = "ircclient/engine"
	DefaultCTCPSource  = "https://github.com/ircclient/engine"
)

// Connection defaults (C6).
const (
	DefaultPlainPort = 6667
	DefaultTLSPort   = 6697

	DefaultIdleTimeout = 180 * time.Second
	DefaultPongTimeout = 60 * time.Second

	DefaultReconnectBase = 2 * time.Second
	DefaultReconnectCap  = 5 * time.Minute
	ReconnectJitter      = 0.20

	DefaultWriteQueueLength = 64

	// DefaultFloodRate is the client->server token bucket rate unless
	// WithFloodControl overrides it; no rate advertised by the server is
	// read.
	DefaultFloodRate     = 2 // messages per second
	DefaultFloodBurst    = 2
	DefaultRegisterDelay = 0
)
