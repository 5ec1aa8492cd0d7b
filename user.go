/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"bytes"
	"sync"
)

// User holds everything a client tracks about another user it has seen,
// keyed by the casefolded nickname in SessionState's user directory.
type User struct {
	sync.RWMutex

	nick     string
	username string
	host     string
	real     string
	account  string // "*" means logged-out, per extended-join/account-notify
	away     bool
	awayMsg  string
	operator bool
}

// NewUser returns a User seeded with a nickname; every other field starts
// empty until a WHO/WHOIS reply or extended-join fills it in.
func NewUser(nickname string) *User {
	return &User{nick: nickname}
}

// Hostmask returns the full nick!user@host mask, or just the nickname if
// username/host are not yet known.
//
// <nick>!<username>@<hostname>
func (u *User) Hostmask() string {
	u.RLock()
	defer u.RUnlock()

	if u.username == "" && u.host == "" {
		return u.nick
	}

	var buf bytes.Buffer
	buf.WriteString(u.nick)
	buf.WriteByte('!')
	buf.WriteString(u.username)
	buf.WriteByte('@')
	buf.WriteString(u.host)
	return buf.String()
}

// Nick returns the user's current nickname.
func (u *User) Nick() string {
	u.RLock()
	defer u.RUnlock()
	return u.nick
}

// SetNick updates the user's nickname, e.g. on a NICK message concerning
// them.
func (u *User) SetNick(nick string) {
	u.Lock()
	defer u.Unlock()
	u.nick = nick
}

// Username returns the user's ident/username.
func (u *User) Username() string {
	u.RLock()
	defer u.RUnlock()
	return u.username
}

// SetUsername sets the user's ident/username.
func (u *User) SetUsername(username string) {
	u.Lock()
	defer u.Unlock()
	u.username = username
}

// Host returns the user's visible hostname.
func (u *User) Host() string {
	u.RLock()
	defer u.RUnlock()
	return u.host
}

// SetHost sets the user's visible hostname.
func (u *User) SetHost(host string) {
	u.Lock()
	defer u.Unlock()
	u.host = host
}

// Realname returns the user's GECOS/realname field.
func (u *User) Realname() string {
	u.RLock()
	defer u.RUnlock()
	return u.real
}

// SetRealname sets the user's GECOS/realname field.
func (u *User) SetRealname(real string) {
	u.Lock()
	defer u.Unlock()
	u.real = real
}

// Account returns the services account name the user is logged into, or
// "" if unknown and "*" if known to be logged out (account-notify,
// account-tag, extended-join).
func (u *User) Account() string {
	u.RLock()
	defer u.RUnlock()
	return u.account
}

// SetAccount sets the user's services account name.
func (u *User) SetAccount(account string) {
	u.Lock()
	defer u.Unlock()
	u.account = account
}

// Away reports whether the user is currently marked away.
func (u *User) Away() bool {
	u.RLock()
	defer u.RUnlock()
	return u.away
}

// AwayMessage returns the user's away message, if any.
func (u *User) AwayMessage() string {
	u.RLock()
	defer u.RUnlock()
	return u.awayMsg
}

// SetAway records the user's away state and message, per away-notify or a
// 301/305/306 numeric.
func (u *User) SetAway(away bool, message string) {
	u.Lock()
	defer u.Unlock()
	u.away = away
	u.awayMsg = message
}

// Operator reports whether the user has been recorded as a network
// operator with SetOperator; channel status modes such as +o do not
// change it.
func (u *User) Operator() bool {
	u.RLock()
	defer u.RUnlock()
	return u.operator
}

// SetOperator records the user's operator status.
func (u *User) SetOperator(oper bool) {
	u.Lock()
	defer u.Unlock()
	u.operator = oper
}
