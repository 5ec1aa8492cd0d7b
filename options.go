/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ircclient/engine/ctcp"
	"github.com/ircclient/engine/sasl"
)

// ConnectionConfig holds everything needed to dial and register one
// connection. Build one with NewConnection's functional options rather
// than constructing it directly.
type ConnectionConfig struct {
	Address string
	Port    int

	UseTLS         bool
	TLSConfig      *tls.Config
	SkipTLSVerify  bool
	RequireTLSCert bool

	Nick     string
	Username string
	Realname string
	Password string

	SASLMechanism   string
	SASLCredentials sasl.Credentials

	RequestCapabilities []Capability

	IdleTimeout  time.Duration
	PongTimeout  time.Duration
	DialTimeout  time.Duration
	WriteQueueLen int

	FloodRate  float64
	FloodBurst float64

	CTCPInfo ctcp.ClientInfo

	Logger *logrus.Entry
}

// ConnectionOption configures a ConnectionConfig during NewConnection.
type ConnectionOption func(*ConnectionConfig)

// WithPort overrides the default port (DefaultPlainPort, or DefaultTLSPort
// when WithTLS is given).
func WithPort(port int) ConnectionOption {
	return func(c *ConnectionConfig) { c.Port = port }
}

// WithTLS enables TLS, optionally supplying a custom *tls.Config (nil
// uses the system trust store with default settings).
func WithTLS(cfg *tls.Config) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.UseTLS = true
		c.TLSConfig = cfg
	}
}

// WithInsecureSkipVerify disables TLS certificate verification. Only
// useful against a server with a self-signed or otherwise unverifiable
// certificate -- never use this against a public network.
func WithInsecureSkipVerify() ConnectionOption {
	return func(c *ConnectionConfig) { c.SkipTLSVerify = true }
}

// WithIdentity sets the nickname, username, and realname sent during
// registration.
func WithIdentity(nick, username, realname string) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.Nick = nick
		c.Username = username
		c.Realname = realname
	}
}

// WithServerPassword sets the PASS sent before registration.
func WithServerPassword(password string) ConnectionOption {
	return func(c *ConnectionConfig) { c.Password = password }
}

// WithSASL requests the sasl capability and configures the mechanism and
// credentials to authenticate with once negotiated.
func WithSASL(mechanism string, creds sasl.Credentials) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.SASLMechanism = mechanism
		c.SASLCredentials = creds
		c.RequestCapabilities = append(c.RequestCapabilities, CapSASL)
	}
}

// WithCapabilities requests additional IRCv3 capabilities during
// negotiation, beyond message-tags and server-time which are always
// requested.
func WithCapabilities(caps ...Capability) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.RequestCapabilities = append(c.RequestCapabilities, caps...)
	}
}

// WithTimeouts overrides the idle and pong liveness timeouts.
func WithTimeouts(idle, pong time.Duration) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.IdleTimeout = idle
		c.PongTimeout = pong
	}
}

// WithFloodControl overrides the client->server token-bucket rate and
// burst size.
func WithFloodControl(ratePerSecond, burst float64) ConnectionOption {
	return func(c *ConnectionConfig) {
		c.FloodRate = ratePerSecond
		c.FloodBurst = burst
	}
}

// WithCTCPInfo overrides the metadata the connection's automatic CTCP
// responder answers VERSION/SOURCE/FINGER/USERINFO requests with.
func WithCTCPInfo(info ctcp.ClientInfo) ConnectionOption {
	return func(c *ConnectionConfig) { c.CTCPInfo = info }
}

// WithConnectionLogger attaches a logrus entry this connection will log
// through, seeded with its own fields on top of it.
func WithConnectionLogger(logger *logrus.Entry) ConnectionOption {
	return func(c *ConnectionConfig) { c.Logger = logger }
}

func defaultConnectionConfig(address string) *ConnectionConfig {
	return &ConnectionConfig{
		Address:             address,
		RequestCapabilities: []Capability{CapMessageTags, CapServerTime, CapCapNotify},
		IdleTimeout:         DefaultIdleTimeout,
		PongTimeout:         DefaultPongTimeout,
		DialTimeout:         30 * time.Second,
		WriteQueueLen:       DefaultWriteQueueLength,
		FloodRate:           DefaultFloodRate,
		FloodBurst:          DefaultFloodBurst,
		CTCPInfo: ctcp.ClientInfo{
			Version:    DefaultCTCPVersion,
			Source:     DefaultCTCPSource,
			FingerInfo: DefaultCTCPVersion,
			UserInfo:   DefaultCTCPVersion,
		},
		Logger: logrus.NewEntry(logrus.StandardLogger()),
	}
}

func (c *ConnectionConfig) validate() error {
	if c.Address == "" {
		return ErrInvalidAddress
	}
	if c.UseTLS && c.SkipTLSVerify && c.RequireTLSCert {
		return fmt.Errorf("%w: RequireTLSCert with SkipTLSVerify", ErrContradictoryTLS)
	}
	if c.Nick == "" {
		return fmt.Errorf("%w: nickname", ErrMissingCredential)
	}
	if c.Port == 0 {
		if c.UseTLS {
			c.Port = DefaultTLSPort
		} else {
			c.Port = DefaultPlainPort
		}
	}
	return nil
}
