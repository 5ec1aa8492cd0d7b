/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"encoding/json"
	"strings"

	"github.com/ircclient/engine/shared/pool"
)

// Message represents an IRC protocol message.
// See RFC 1459 section 2.3.1 and the IRCv3 message-tags specification.
//
//    <message>  = ['@' <tags> <SPACE>] [':' <prefix> <SPACE>] <command> <params> <crlf>
//    <prefix>   = <servername> | <nick> ['!' <user>] ['@' <host>]
//    <command>  = <letter> {<letter>} | <number> <number> <number>
//    <params>   = <SPACE> [':' <trailing> | <middle> <params>]
type Message struct {
	Tags []Tag

	// Prefix is nil when the message carries no prefix (most
	// client-originated commands). When present, Prefix.User and
	// Prefix.Host are empty for a bare server-name prefix.
	Prefix *Prefix

	Command string
	Params  []string

	// HasTrailing is true when the last entry of Params was (or must be)
	// serialized as the ':'-prefixed trailing parameter, independent of
	// whether its content actually requires it. Set by the parser on
	// every message that carried an explicit trailing parameter, and by
	// AddTrailing when building a message programmatically.
	HasTrailing bool
}

// Prefix identifies the origin of a Message: either an opaque server
// name, or a client hostmask of the form nick[!user][@host].
type Prefix struct {
	Name string
	User string
	Host string
}

// IsServer reports whether the prefix names a server rather than a
// client (no '!' or '@' was present in the source token).
func (p *Prefix) IsServer() bool {
	return p != nil && p.User == "" && p.Host == ""
}

// String renders the prefix back to its wire form (without the leading
// ':').
func (p *Prefix) String() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Name)
	if p.User != "" {
		b.WriteByte('!')
		b.WriteString(p.User)
	}
	if p.Host != "" {
		b.WriteByte('@')
		b.WriteString(p.Host)
	}
	return b.String()
}

// ParsePrefix splits a raw prefix token into a Prefix, disambiguating a
// bare server name from a nick[!user][@host] client mask by the presence
// of '!' or '@'.
func ParsePrefix(raw string) *Prefix {
	if !strings.ContainsAny(raw, "!@") {
		return &Prefix{Name: raw}
	}

	p := &Prefix{}
	rest := raw

	if i := strings.IndexByte(rest, '@'); i >= 0 {
		p.Host = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '!'); i >= 0 {
		p.User = rest[i+1:]
		rest = rest[:i]
	}
	p.Name = rest

	return p
}

// msgPool recycles Message values across the parse/render hot path,
// mirroring the teacher's generic object-pool idiom.
var msgPool = pool.New(func() *Message { return &Message{} })

// Reset clears a Message so it can be safely recycled by msgPool.
func (m *Message) Reset() {
	m.Tags = m.Tags[:0]
	m.Prefix = nil
	m.Command = ""
	m.Params = m.Params[:0]
	m.HasTrailing = false
}

// NewMessage takes a Message from the pool.
func NewMessage() *Message {
	return msgPool.New()
}

// Recycle returns a Message to the pool. Callers must not touch m after
// calling Recycle.
func (m *Message) Recycle() {
	msgPool.Recycle(m)
}

// AddParam appends a middle parameter. It panics if a trailing parameter
// has already been added -- callers must add the trailing parameter last,
// via AddTrailing.
func (m *Message) AddParam(p string) {
	if m.HasTrailing {
		panic("ircclient: cannot add a middle parameter after the trailing parameter")
	}
	m.Params = append(m.Params, p)
}

// AddTrailing appends the final, ':'-introduced trailing parameter. Only
// one trailing parameter may exist per message, and it must be last.
func (m *Message) AddTrailing(p string) {
	m.Params = append(m.Params, p)
	m.HasTrailing = true
}

// Render returns the IRC wire-formatted string for the message, including
// the terminating CRLF.
func (m *Message) Render() string {
	var b strings.Builder

	if len(m.Tags) > 0 {
		b.WriteByte('@')
		for i, t := range m.Tags {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(t.KeyString())
			if t.HasValue {
				b.WriteByte('=')
				b.WriteString(t.Value)
			}
		}
		b.WriteByte(' ')
	}

	if m.Prefix != nil {
		b.WriteByte(':')
		b.WriteString(m.Prefix.String())
		b.WriteByte(' ')
	}

	b.WriteString(m.Command)

	for i, p := range m.Params {
		b.WriteByte(' ')
		if m.HasTrailing && i == len(m.Params)-1 {
			b.WriteByte(':')
		}
		b.WriteString(p)
	}

	b.WriteString(CRLF)

	return b.String()
}

// String satisfies fmt.Stringer.
func (m *Message) String() string {
	return m.Render()
}

// Debug renders verbose, JSON-formatted information about the message for
// diagnostic logging. AUTHENTICATE payloads are base64 blobs, not raw
// credentials, so including Params here is safe -- SaslCredentials never
// flow through a Message field directly (see sasl.SecureString).
func (m *Message) Debug() string {
	out, _ := json.Marshal(struct {
		Tags        []Tag    `json:"tags,omitempty"`
		Prefix      string   `json:"prefix,omitempty"`
		Command     string   `json:"command"`
		Params      []string `json:"params,omitempty"`
		HasTrailing bool     `json:"has_trailing,omitempty"`
	}{
		Tags:        m.Tags,
		Prefix:      m.Prefix.String(),
		Command:     m.Command,
		Params:      m.Params,
		HasTrailing: m.HasTrailing,
	})
	return string(out)
}

// Wire format constants.
const (
	SPACE string = " "
	CRLF         = "\r\n"
	COLON        = ":"
	AT           = "@"
)
