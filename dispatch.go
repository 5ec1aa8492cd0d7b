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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ircclient/engine/ctcp"
	"github.com/ircclient/engine/events"
	"github.com/ircclient/engine/sasl"
)

// dispatch runs msg through the internal router -- applying it to
// SessionState and acting on it where applicable -- and only once that
// completes does it publish MessageReceived on the bus. State mutation
// (and any derived event the router emits along the way) always happens
// before the raw message is published, per spec.md section 4.6/5.
func (c *Connection) dispatch(msg *Message) {
	switch msg.Command {
	case CmdPing:
		c.handlePing(msg)
	case CmdPong:
		c.clearPongTimer()
	case CmdError:
		c.handleError(msg)
	case CmdCap:
		c.handleCap(msg)
	case CmdAuth:
		c.handleAuthenticate(msg)
	case CmdNick:
		c.handleNick(msg)
	case CmdJoin:
		c.handleJoin(msg)
	case CmdPart:
		c.handlePart(msg)
	case CmdQuit:
		c.handleQuit(msg)
	case CmdKick:
		if len(msg.Params) >= 2 {
			channel, nick := msg.Params[0], msg.Params[1]
			c.session.PartChannel(channel, nick)
			if CasefoldEqual(nick, c.session.LocalNick()) {
				c.bus.Emit(events.ChannelLeft{ConnID: c.id, Channel: channel})
			} else {
				c.bus.Emit(events.UserLeft{ConnID: c.id, Channel: channel, Nick: nick})
			}
		}
	case CmdTopic:
		c.handleTopic(msg)
	case CmdMode:
		c.handleMode(msg)
	case CmdAccount:
		c.handleAccount(msg)
	case CmdAway:
		c.handleAway(msg)
	case CmdPrivMsg:
		c.handlePrivmsg(msg)
	case CmdNotice:
		c.handleNotice(msg)
	default:
		c.handleNumeric(msg)
	}

	c.bus.Emit(events.MessageReceived{ConnID: c.id, Raw: msg.Render()})
}

func senderNick(msg *Message) string {
	if msg.Prefix == nil || msg.Prefix.IsServer() {
		return ""
	}
	return msg.Prefix.Name
}

func (c *Connection) handlePing(msg *Message) {
	token := ""
	if len(msg.Params) > 0 {
		token = msg.Params[len(msg.Params)-1]
	}
	_ = c.enqueue(PongCmd{Token: token})
}

func (c *Connection) handleError(msg *Message) {
	reason := ""
	if len(msg.Params) > 0 {
		reason = msg.Params[len(msg.Params)-1]
	}
	c.bus.Emit(events.Error{ConnID: c.id, Reason: reason})
}

// handleCap drives CAP LS/ACK/NAK negotiation. It assumes a single-round
// REQ: every offered capability the configuration requested is asked for
// in one CAP REQ, and CAP END follows as soon as that round resolves
// (after the SASL exchange completes, when sasl was among the acked
// capabilities).
func (c *Connection) handleCap(msg *Message) {
	if len(msg.Params) < 2 {
		return
	}
	subcommand := strings.ToUpper(msg.Params[1])

	switch subcommand {
	case "LS":
		c.handleCapLS(msg)
	case "ACK":
		c.handleCapACK(msg)
	case "NAK":
		c.log.WithField("caps", lastParam(msg)).Warn("server rejected requested capabilities")
		_ = c.enqueue(CapEndCmd{})
	case "NEW":
		c.log.WithField("caps", lastParam(msg)).Info("server advertises new capabilities")
	case "DEL":
		for _, name := range strings.Fields(lastParam(msg)) {
			c.mu.Lock()
			c.negotiatedCaps.Remove(Capability(name))
			c.mu.Unlock()
		}
	}
}

func lastParam(msg *Message) string {
	if len(msg.Params) == 0 {
		return ""
	}
	return msg.Params[len(msg.Params)-1]
}

func (c *Connection) handleCapLS(msg *Message) {
	more := len(msg.Params) >= 3 && msg.Params[2] == "*"

	c.mu.Lock()
	for _, entry := range strings.Fields(lastParam(msg)) {
		name := entry
		if i := strings.IndexByte(entry, '='); i >= 0 {
			name = entry[:i]
		}
		c.offeredCaps.Add(Capability(name))
	}
	offered := c.offeredCaps
	c.mu.Unlock()

	if more {
		return
	}

	requested := NewCapabilitySet(c.cfg.RequestCapabilities...)
	toRequest := requested.Intersect(offered)

	if toRequest.Len() == 0 {
		_ = c.enqueue(CapEndCmd{})
		return
	}
	_ = c.enqueue(CapReqCmd{Capabilities: toRequest.Slice()})
}

func (c *Connection) handleCapACK(msg *Message) {
	c.mu.Lock()
	for _, name := range strings.Fields(lastParam(msg)) {
		c.negotiatedCaps.Add(Capability(name))
	}
	saslAcked := c.negotiatedCaps.Has(CapSASL)
	c.mu.Unlock()

	if saslAcked && c.cfg.SASLCredentials.Authcid != "" {
		c.startSASL()
		return
	}
	_ = c.enqueue(CapEndCmd{})
}

func (c *Connection) startSASL() {
	mechanism := c.cfg.SASLMechanism
	if mechanism == "" {
		mechanism = "PLAIN"
	}
	c.mu.Lock()
	c.pendingSASLMechanism = mechanism
	c.mu.Unlock()
	_ = c.enqueue(AuthenticateCmd{Payload: mechanism})
}

func (c *Connection) handleAuthenticate(msg *Message) {
	payload := lastParam(msg)

	c.mu.Lock()
	authenticator := c.authenticator
	pending := c.pendingSASLMechanism
	c.mu.Unlock()

	if authenticator == nil {
		return
	}

	if authenticator.State() == sasl.StateIdle && pending != "" {
		c.mu.Lock()
		c.pendingSASLMechanism = ""
		c.mu.Unlock()

		payloads, err := authenticator.Start(pending, c.cfg.SASLCredentials)
		if err != nil {
			c.log.WithError(err).Warn("sasl start failed")
			_ = c.enqueue(CapEndCmd{})
			return
		}
		c.sendAuthPayloads(payloads)
		return
	}

	challenge, err := sasl.DecodeChallenge(payload)
	if err != nil {
		c.log.WithError(err).Warn("malformed sasl challenge")
		return
	}

	payloads, err := authenticator.Continue(challenge)
	if err != nil {
		c.log.WithError(err).Warn("sasl continuation failed")
		_ = c.enqueue(CapEndCmd{})
		return
	}
	c.sendAuthPayloads(payloads)
}

func (c *Connection) sendAuthPayloads(payloads []string) {
	for _, p := range payloads {
		_ = c.enqueue(AuthenticateCmd{Payload: p})
	}
}

func (c *Connection) handleNumeric(msg *Message) {
	n, err := strconv.ParseUint(msg.Command, 10, 16)
	if err != nil {
		return
	}

	switch uint16(n) {
	case ReplyWelcome:
		c.handleWelcome(msg)
	case ReplyISupport:
		c.handleISupport(msg)
	case ReplyChanTopic:
		c.handleTopicReply(msg)
	case ReplyNames:
		c.handleNamesReply(msg)
	case ReplySASLSuccess:
		c.mu.RLock()
		auth := c.authenticator
		c.mu.RUnlock()
		if auth != nil {
			auth.HandleSuccess()
		}
		_ = c.enqueue(CapEndCmd{})
	case ReplySASLFail, ReplySASLTooLong, ReplySASLAborted, ReplySASLAlready:
		c.mu.RLock()
		auth := c.authenticator
		c.mu.RUnlock()
		if auth != nil {
			auth.HandleFailure(lastParam(msg))
		}
		_ = c.enqueue(CapEndCmd{})
	}
}

func (c *Connection) handleWelcome(msg *Message) {
	if len(msg.Params) > 0 {
		c.session.SetLocalNick(msg.Params[0])
	}
	c.retries.Reset()
	c.setState(StateRegistered)
	c.bus.Emit(events.Connected{ConnID: c.id})
}

// handleISupport looks for the CHANMODES and PREFIX tokens among the
// ISUPPORT parameters and rebuilds the session's mode table from them.
func (c *Connection) handleISupport(msg *Message) {
	var chanmodes, prefix string
	for _, p := range msg.Params {
		if v, ok := strings.CutPrefix(p, "CHANMODES="); ok {
			chanmodes = v
		}
		if v, ok := strings.CutPrefix(p, "PREFIX="); ok {
			prefix = v
		}
	}
	if chanmodes != "" || prefix != "" {
		if chanmodes == "" {
			chanmodes = "b,k,l,imnpst"
		}
		if prefix == "" {
			prefix = "(ov)@+"
		}
		c.session.ApplyISupport(chanmodes, prefix)
	}
}

func (c *Connection) handleTopicReply(msg *Message) {
	if len(msg.Params) < 3 {
		return
	}
	channel := msg.Params[1]
	topic := msg.Params[2]
	c.session.SetTopic(channel, topic, "", time.Now())
	c.bus.Emit(events.TopicChanged{ConnID: c.id, Channel: channel, Topic: topic})
}

// handleNamesReply applies RPL_NAMREPLY entries to the channel's member
// list. Status prefixes are stripped per the negotiated PREFIX set and
// recorded on the member entry.
func (c *Connection) handleNamesReply(msg *Message) {
	if len(msg.Params) < 3 {
		return
	}
	channel := msg.Params[len(msg.Params)-2]
	spec := c.session.ModeSpec()

	for _, entry := range strings.Fields(lastParam(msg)) {
		nick, prefixes := splitStatusPrefixes(entry, spec)
		c.session.JoinChannel(channel, nick, time.Now())
		if ch, ok := c.session.Channel(channel); ok && prefixes != "" {
			ch.SetPrefixes(nick, prefixes)
		}
	}
}

func splitStatusPrefixes(entry string, spec *ModeSpec) (nick, prefixes string) {
	i := 0
	for i < len(entry) {
		found := false
		for _, p := range spec.Prefix {
			if entry[i] == p {
				found = true
				break
			}
		}
		if !found {
			break
		}
		i++
	}
	return entry[i:], entry[:i]
}

func (c *Connection) handleNick(msg *Message) {
	oldNick := senderNick(msg)
	if oldNick == "" || len(msg.Params) == 0 {
		return
	}
	newNick := msg.Params[0]

	c.session.RenameUser(oldNick, newNick)
	c.bus.Emit(events.NickChanged{ConnID: c.id, Old: oldNick, New: newNick})
}

func (c *Connection) handleJoin(msg *Message) {
	nick := senderNick(msg)
	if nick == "" || len(msg.Params) == 0 {
		return
	}
	channel := msg.Params[0]

	c.session.JoinChannel(channel, nick, time.Now())

	if CasefoldEqual(nick, c.session.LocalNick()) {
		c.bus.Emit(events.ChannelJoined{ConnID: c.id, Channel: channel})
	} else {
		c.bus.Emit(events.UserJoined{ConnID: c.id, Channel: channel, Nick: nick})
	}
}

func (c *Connection) handlePart(msg *Message) {
	nick := senderNick(msg)
	if nick == "" || len(msg.Params) == 0 {
		return
	}
	channel := msg.Params[0]

	c.session.PartChannel(channel, nick)

	if CasefoldEqual(nick, c.session.LocalNick()) {
		c.bus.Emit(events.ChannelLeft{ConnID: c.id, Channel: channel})
	} else {
		c.bus.Emit(events.UserLeft{ConnID: c.id, Channel: channel, Nick: nick})
	}
}

func (c *Connection) handleQuit(msg *Message) {
	nick := senderNick(msg)
	if nick == "" {
		return
	}
	for _, channel := range c.session.ChannelsForUser(nick) {
		c.session.PartChannel(channel, nick)
		c.bus.Emit(events.UserLeft{ConnID: c.id, Channel: channel, Nick: nick})
	}
}

func (c *Connection) handleTopic(msg *Message) {
	if len(msg.Params) < 2 {
		return
	}
	channel := msg.Params[0]
	topic := msg.Params[1]
	setBy := senderNick(msg)

	c.session.SetTopic(channel, topic, setBy, time.Now())
	c.bus.Emit(events.TopicChanged{ConnID: c.id, Channel: channel, Topic: topic})
}

func (c *Connection) handleMode(msg *Message) {
	if len(msg.Params) < 2 {
		return
	}
	target := msg.Params[0]
	if !IsChannelName(target) {
		return
	}
	modeString := msg.Params[1]
	args := msg.Params[2:]
	setBy := senderNick(msg)

	if err := c.session.ApplyMode(target, modeString, args, setBy, time.Now()); err != nil {
		c.log.WithError(err).WithField("channel", target).Warn("failed to apply mode change")
	}
}

func (c *Connection) handleAccount(msg *Message) {
	nick := senderNick(msg)
	if nick == "" || len(msg.Params) == 0 {
		return
	}
	account := msg.Params[0]
	if account == "*" {
		account = ""
	}
	c.session.UpdateUser(nick, func(u *User) { u.SetAccount(account) })
}

// handlePrivmsg answers CTCP requests automatically (VERSION/SOURCE/
// FINGER/USERINFO/TIME/PING/CLIENTINFO), replying over NOTICE to the
// requester so the reply can never itself trigger another request. Plain
// text PRIVMSGs need no further action here: MessageReceived already
// carries them to the host application.
func (c *Connection) handlePrivmsg(msg *Message) {
	if len(msg.Params) < 2 {
		return
	}
	nick := senderNick(msg)
	text := msg.Params[1]

	if nick == "" || !ctcp.IsCTCP(text) {
		return
	}

	reply, ok := c.ctcpResponder.Reply(ctcp.Parse(text))
	if !ok {
		return
	}
	_ = c.enqueue(NoticeCmd{Target: nick, Text: ctcp.Encode(reply.Command, reply.Data)})
}

// handleNotice logs an inbound CTCP reply (the convention's answer to a
// request this connection sent) for diagnostics. The responder never
// answers a NOTICE, CTCP or otherwise, to avoid a reply loop.
func (c *Connection) handleNotice(msg *Message) {
	if len(msg.Params) < 2 {
		return
	}
	text := msg.Params[1]
	if !ctcp.IsCTCP(text) {
		return
	}

	reply := ctcp.Parse(text)
	c.log.WithFields(logrus.Fields{
		"from":    senderNick(msg),
		"command": reply.Command,
		"data":    reply.Data,
	}).Debug("received ctcp reply")
}

func (c *Connection) handleAway(msg *Message) {
	nick := senderNick(msg)
	if nick == "" {
		return
	}
	message := lastParam(msg)
	c.session.UpdateUser(nick, func(u *User) { u.SetAway(message != "", message) })
}
