/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageRender(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Message
		expected string
	}{
		{
			name: "prefixed privmsg with trailing",
			build: func() *Message {
				m := NewMessage()
				m.Prefix = &Prefix{Name: "nick1", User: "someuser", Host: "irc.somehost.org"}
				m.Command = CmdPrivMsg
				m.AddParam("#channel")
				m.AddTrailing("I am the client")
				return m
			},
			expected: ":nick1!someuser@irc.somehost.org PRIVMSG #channel :I am the client\r\n",
		},
		{
			name: "numeric reply with middle and trailing params",
			build: func() *Message {
				m := NewMessage()
				m.Prefix = &Prefix{Name: "irc.someserver.net"}
				m.Command = "001"
				m.AddParam("nick1")
				m.AddTrailing("Welcome to the server")
				return m
			},
			expected: ":irc.someserver.net 001 nick1 :Welcome to the server\r\n",
		},
		{
			name: "tags rendered before prefix",
			build: func() *Message {
				m := NewMessage()
				m.Tags = []Tag{{Key: "time", Value: "2026-07-30T00:00:00.000Z", HasValue: true}}
				m.Prefix = &Prefix{Name: "nick1"}
				m.Command = CmdJoin
				m.AddParam("#channel")
				return m
			},
			expected: "@time=2026-07-30T00:00:00.000Z :nick1 JOIN #channel\r\n",
		},
		{
			name: "no prefix, no tags",
			build: func() *Message {
				m := NewMessage()
				m.Command = CmdNick
				m.AddParam("newnick")
				return m
			},
			expected: "NICK newnick\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.build()
			assert.Equal(t, tt.expected, msg.Render())
			assert.Equal(t, tt.expected, msg.String())
		})
	}
}

func TestMessageAddParamAfterTrailingPanics(t *testing.T) {
	m := NewMessage()
	m.AddTrailing("trailing")
	assert.Panics(t, func() { m.AddParam("middle") })
}

func TestMessageResetClearsState(t *testing.T) {
	m := NewMessage()
	m.Tags = []Tag{{Key: "time", HasValue: true}}
	m.Prefix = &Prefix{Name: "nick1"}
	m.Command = CmdPrivMsg
	m.AddTrailing("hi")

	m.Reset()

	assert.Empty(t, m.Tags)
	assert.Nil(t, m.Prefix)
	assert.Empty(t, m.Command)
	assert.Empty(t, m.Params)
	assert.False(t, m.HasTrailing)
}

func TestPrefixParsing(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *Prefix
		isServer bool
	}{
		{
			name:     "bare server name",
			raw:      "irc.someserver.net",
			expected: &Prefix{Name: "irc.someserver.net"},
			isServer: true,
		},
		{
			name:     "full client hostmask",
			raw:      "nick1!someuser@irc.somehost.org",
			expected: &Prefix{Name: "nick1", User: "someuser", Host: "irc.somehost.org"},
			isServer: false,
		},
		{
			name:     "nick only, no user or host",
			raw:      "nick1",
			expected: &Prefix{Name: "nick1"},
			isServer: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePrefix(tt.raw)
			assert.Equal(t, tt.expected, p)
			assert.Equal(t, tt.isServer, p.IsServer())
			assert.Equal(t, tt.raw, p.String())
		})
	}
}
