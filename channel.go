/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"strings"
	"sync"
	"time"

	"github.com/ircclient/engine/shared/concurrentmap"
)

// MaskEntry records a single entry in a ban/except/invite list, along
// with who set it and when -- the information carried by RPL_BANLIST,
// RPL_EXCEPTLIST, and RPL_INVITELIST.
type MaskEntry struct {
	Mask  string
	SetBy string
	SetAt time.Time
}

// ChannelUser is a channel member: a reference to the shared User plus
// the membership state that is channel-local rather than user-global.
type ChannelUser struct {
	User     *User
	Prefixes string // highest-to-lowest status prefixes, e.g. "@+" under multi-prefix
	JoinedAt time.Time
}

// Channel holds everything a client tracks about a joined channel:
// topic, creation time, member prefixes, and the three persisted mask
// lists (bans, exceptions, invites).
type Channel struct {
	mu sync.RWMutex

	name      string
	createdAt time.Time

	topic      string
	topicSetBy string
	topicSetAt time.Time

	// modes maps a parametric or boolean channel mode letter to its
	// argument, empty for boolean modes (e.g. 'm', 'n'). List modes
	// (b/e/I) are not stored here -- see bans/excepts/invites below.
	modes map[rune]string

	members concurrentmap.ConcurrentMap[string, *ChannelUser]
	bans    concurrentmap.ConcurrentMap[string, *MaskEntry]
	excepts concurrentmap.ConcurrentMap[string, *MaskEntry]
	invites concurrentmap.ConcurrentMap[string, *MaskEntry]
}

// channelPrefixes lists the characters RFC 1459/2812 and common ISUPPORT
// CHANTYPES tokens use to mark a channel name, as opposed to a nickname.
const channelPrefixes = "#&+!"

// IsChannelName reports whether target names a channel rather than a
// nickname, by its leading character.
func IsChannelName(target string) bool {
	return target != "" && strings.ContainsRune(channelPrefixes, rune(target[0]))
}

// NewChannel initializes an empty Channel record for name.
func NewChannel(name string) *Channel {
	return &Channel{
		name:      name,
		createdAt: time.Now(),
		modes:     make(map[rune]string),
		members:   concurrentmap.New[string, *ChannelUser](),
		bans:      concurrentmap.New[string, *MaskEntry](),
		excepts:   concurrentmap.New[string, *MaskEntry](),
		invites:   concurrentmap.New[string, *MaskEntry](),
	}
}

// Name returns the channel's name.
func (c *Channel) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// CreatedAt returns the channel's creation timestamp, from RPL_CREATIONTIME.
func (c *Channel) CreatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.createdAt
}

// SetCreatedAt records the channel's creation timestamp.
func (c *Channel) SetCreatedAt(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createdAt = t
}

// Topic returns the channel's topic.
func (c *Channel) Topic() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topic
}

// TopicInfo returns who set the current topic and when.
func (c *Channel) TopicInfo() (setBy string, setAt time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topicSetBy, c.topicSetAt
}

// SetTopic records a new topic along with who set it and when.
func (c *Channel) SetTopic(topic, setBy string, setAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = topic
	c.topicSetBy = setBy
	c.topicSetAt = setAt
}

// Mode returns a parametric/boolean mode's argument (empty for boolean
// modes) and whether it is currently set.
func (c *Channel) Mode(letter rune) (arg string, set bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	arg, set = c.modes[letter]
	return arg, set
}

// SetMode marks a mode as set, with an optional argument.
func (c *Channel) SetMode(letter rune, arg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modes[letter] = arg
}

// UnsetMode clears a mode.
func (c *Channel) UnsetMode(letter rune) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.modes, letter)
}

// Modes returns a snapshot of every currently-set mode and its argument.
func (c *Channel) Modes() map[rune]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[rune]string, len(c.modes))
	for k, v := range c.modes {
		out[k] = v
	}
	return out
}

// AddMember adds or replaces a member entry, keyed by the casefolded
// nickname.
func (c *Channel) AddMember(nick string, member *ChannelUser) {
	c.members.Set(Casefold(nick), member)
}

// RemoveMember removes a member by nickname.
func (c *Channel) RemoveMember(nick string) {
	c.members.Delete(Casefold(nick))
}

// Member returns the member entry for nick, if present.
func (c *Channel) Member(nick string) (*ChannelUser, bool) {
	return c.members.Get(Casefold(nick))
}

// MemberCount returns the number of tracked members.
func (c *Channel) MemberCount() int {
	return c.members.Length()
}

// Members returns every tracked member.
func (c *Channel) Members() []*ChannelUser {
	return c.members.Values()
}

// SetPrefixes updates a member's status-prefix string (e.g. "@" for
// chanop, "@+" for chanop+voice under multi-prefix).
func (c *Channel) SetPrefixes(nick, prefixes string) {
	if member, ok := c.members.Get(Casefold(nick)); ok {
		member.Prefixes = prefixes
	}
}

// AddBan records a ban mask.
func (c *Channel) AddBan(mask, setBy string, setAt time.Time) {
	c.bans.Set(mask, &MaskEntry{Mask: mask, SetBy: setBy, SetAt: setAt})
}

// RemoveBan removes a ban mask.
func (c *Channel) RemoveBan(mask string) {
	c.bans.Delete(mask)
}

// Bans returns every tracked ban mask.
func (c *Channel) Bans() []*MaskEntry {
	return c.bans.Values()
}

// AddExcept records a ban-exception mask.
func (c *Channel) AddExcept(mask, setBy string, setAt time.Time) {
	c.excepts.Set(mask, &MaskEntry{Mask: mask, SetBy: setBy, SetAt: setAt})
}

// RemoveExcept removes a ban-exception mask.
func (c *Channel) RemoveExcept(mask string) {
	c.excepts.Delete(mask)
}

// Excepts returns every tracked ban-exception mask.
func (c *Channel) Excepts() []*MaskEntry {
	return c.excepts.Values()
}

// AddInvite records an invite-exception mask.
func (c *Channel) AddInvite(mask, setBy string, setAt time.Time) {
	c.invites.Set(mask, &MaskEntry{Mask: mask, SetBy: setBy, SetAt: setAt})
}

// RemoveInvite removes an invite-exception mask.
func (c *Channel) RemoveInvite(mask string) {
	c.invites.Delete(mask)
}

// Invites returns every tracked invite-exception mask.
func (c *Channel) Invites() []*MaskEntry {
	return c.invites.Values()
}
