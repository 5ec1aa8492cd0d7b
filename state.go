/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"time"

	"github.com/ircclient/engine/shared/concurrentmap"
)

// SessionState is the single connection's view of the IRC world: who it
// knows about and which channels it has joined. All mutators except
// ApplyMode return nothing and mutate in place (ApplyMode also returns the
// mode-parsing error); all queries return the live, shared value -- callers
// that need a stable snapshot must copy it themselves.
type SessionState struct {
	users    concurrentmap.ConcurrentMap[string, *User]
	channels concurrentmap.ConcurrentMap[string, *Channel]

	// channelOrder records casefolded channel keys in the order they were
	// first added to channels. concurrentmap.Values() iterates a native Go
	// map and gives no ordering guarantee, but callers that walk "every
	// channel this connection is in" -- ChannelsForUser in particular --
	// need the directory's insertion order, so it is tracked here
	// alongside the map instead of inside it.
	channelOrder []string

	modeSpec *ModeSpec

	// localNick is the connection's own, possibly server-truncated,
	// nickname -- used by RemoveUser's last-channel invariant.
	localNick string
}

// NewSessionState returns an empty SessionState for a connection whose
// own nickname is localNick.
func NewSessionState(localNick string) *SessionState {
	return &SessionState{
		users:     concurrentmap.New[string, *User](),
		channels:  concurrentmap.New[string, *Channel](),
		modeSpec:  DefaultModeSpec(),
		localNick: localNick,
	}
}

// recordChannelInsertion appends key to channelOrder the first time it is
// seen. Re-adding an already-tracked channel (AddChannel replacing a live
// record, or JoinChannel finding it already exists) leaves its original
// position untouched.
func (s *SessionState) recordChannelInsertion(key string) {
	for _, k := range s.channelOrder {
		if k == key {
			return
		}
	}
	s.channelOrder = append(s.channelOrder, key)
}

// forgetChannelInsertion removes key from channelOrder.
func (s *SessionState) forgetChannelInsertion(key string) {
	for i, k := range s.channelOrder {
		if k == key {
			s.channelOrder = append(s.channelOrder[:i], s.channelOrder[i+1:]...)
			return
		}
	}
}

// LocalNick returns the connection's own current nickname.
func (s *SessionState) LocalNick() string {
	return s.localNick
}

// SetLocalNick updates the connection's own nickname, e.g. after a
// successful NICK change or a truncation at registration.
func (s *SessionState) SetLocalNick(nick string) {
	s.localNick = nick
}

// ModeSpec returns the mode-letter rule table in effect, refreshed by
// ApplyISupport once RPL_ISUPPORT arrives.
func (s *SessionState) ModeSpec() *ModeSpec {
	return s.modeSpec
}

// ApplyISupport rebuilds the mode table from the server's CHANMODES and
// PREFIX ISUPPORT tokens.
func (s *SessionState) ApplyISupport(chanmodes, prefix string) {
	s.modeSpec = BuildModeSpec(chanmodes, prefix)
}

// AddUser inserts or replaces a user directory entry, keyed by casefolded
// nickname.
func (s *SessionState) AddUser(user *User) {
	s.users.Set(Casefold(user.Nick()), user)
}

// RemoveUser deletes a user directory entry. The caller's own record
// (localNick) is the one exception callers must not invoke this for: the
// session always keeps a record of itself, per the "last channel"
// invariant below.
func (s *SessionState) RemoveUser(nick string) {
	if CasefoldEqual(nick, s.localNick) {
		return
	}
	s.users.Delete(Casefold(nick))
}

// User looks up a user by nickname, case-insensitively.
func (s *SessionState) User(nick string) (*User, bool) {
	return s.users.Get(Casefold(nick))
}

// UpdateUser applies fn to the user record for nick if present, inserting
// a fresh record first if absent.
func (s *SessionState) UpdateUser(nick string, fn func(*User)) {
	key := Casefold(nick)
	user, ok := s.users.Get(key)
	if !ok {
		user = NewUser(nick)
		s.users.Set(key, user)
	}
	fn(user)
}

// RenameUser moves a user's directory entry to a new nickname key,
// updating both the User's own Nick field and the channel membership
// keys of every channel it is a member of.
func (s *SessionState) RenameUser(oldNick, newNick string) {
	oldKey, newKey := Casefold(oldNick), Casefold(newNick)

	if user, ok := s.users.Get(oldKey); ok {
		user.SetNick(newNick)
		s.users.Delete(oldKey)
		s.users.Set(newKey, user)
	}

	if CasefoldEqual(oldNick, s.localNick) {
		s.localNick = newNick
	}

	for _, channel := range s.channels.Values() {
		if member, ok := channel.Member(oldNick); ok {
			channel.RemoveMember(oldNick)
			channel.AddMember(newNick, member)
		}
	}
}

// AddChannel inserts or replaces a channel record, keyed by casefolded
// name.
func (s *SessionState) AddChannel(channel *Channel) {
	key := Casefold(channel.Name())
	s.channels.Set(key, channel)
	s.recordChannelInsertion(key)
}

// RemoveChannel deletes a channel record, e.g. after this connection
// parts it.
func (s *SessionState) RemoveChannel(name string) {
	key := Casefold(name)
	s.channels.Delete(key)
	s.forgetChannelInsertion(key)
}

// Channel looks up a channel by name, case-insensitively.
func (s *SessionState) Channel(name string) (*Channel, bool) {
	return s.channels.Get(Casefold(name))
}

// Channels returns every tracked channel.
func (s *SessionState) Channels() []*Channel {
	return s.channels.Values()
}

// JoinChannel records nick as a member of channel, creating the channel
// record and/or user directory entry if either is missing. A concurrent
// join of the same nick into the same channel is idempotent: it replaces
// the member entry rather than duplicating it.
func (s *SessionState) JoinChannel(channelName, nick string, joinedAt time.Time) {
	key := Casefold(channelName)
	channel, ok := s.channels.Get(key)
	if !ok {
		channel = NewChannel(channelName)
		s.channels.Set(key, channel)
		s.recordChannelInsertion(key)
	}

	userKey := Casefold(nick)
	user, ok := s.users.Get(userKey)
	if !ok {
		user = NewUser(nick)
		s.users.Set(userKey, user)
	}

	channel.AddMember(nick, &ChannelUser{User: user, JoinedAt: joinedAt})
}

// PartChannel removes nick's membership from channel. If nick is the
// connection's own nickname, the channel record itself is dropped; the
// departed user's directory entry is retained only if it is the local
// nick, per RemoveUser's invariant -- a remote user with no remaining
// common channel is pruned from the directory entirely.
func (s *SessionState) PartChannel(channelName, nick string) {
	key := Casefold(channelName)
	channel, ok := s.channels.Get(key)
	if !ok {
		return
	}

	channel.RemoveMember(nick)

	if CasefoldEqual(nick, s.localNick) {
		s.channels.Delete(key)
		s.forgetChannelInsertion(key)
		return
	}

	if !s.userSharesAnyChannel(nick) {
		s.RemoveUser(nick)
	}
}

// userSharesAnyChannel reports whether nick still shares a tracked
// channel with this connection.
func (s *SessionState) userSharesAnyChannel(nick string) bool {
	for _, channel := range s.channels.Values() {
		if _, ok := channel.Member(nick); ok {
			return true
		}
	}
	return false
}

// ChannelsForUser lists the names of every channel nick is currently a
// member of, in insertion order of the channel directory -- the order
// this connection itself joined them in, not map iteration order.
func (s *SessionState) ChannelsForUser(nick string) []string {
	var names []string
	for _, key := range s.channelOrder {
		channel, ok := s.channels.Get(key)
		if !ok {
			continue
		}
		if _, ok := channel.Member(nick); ok {
			names = append(names, channel.Name())
		}
	}
	return names
}

// SetTopic records a channel's topic, creating the channel record if it
// does not exist yet (e.g. a pre-join RPL_TOPIC is never expected, but a
// defensive insert keeps this a pure mutator with no error return).
func (s *SessionState) SetTopic(channelName, topic, setBy string, setAt time.Time) {
	key := Casefold(channelName)
	channel, ok := s.channels.Get(key)
	if !ok {
		channel = NewChannel(channelName)
		s.channels.Set(key, channel)
		s.recordChannelInsertion(key)
	}
	channel.SetTopic(topic, setBy, setAt)
}

// ApplyMode applies a MODE command's mode string and arguments to a
// channel's tracked state.
func (s *SessionState) ApplyMode(channelName, modeString string, args []string, setBy string, setAt time.Time) error {
	key := Casefold(channelName)
	channel, ok := s.channels.Get(key)
	if !ok {
		channel = NewChannel(channelName)
		s.channels.Set(key, channel)
		s.recordChannelInsertion(key)
	}
	return ApplyModeChange(channel, s.modeSpec, modeString, args, setBy, setAt)
}
