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

func TestUserHostmask(t *testing.T) {
	u := NewUser("nick1")
	assert.Equal(t, "nick1", u.Hostmask())

	u.SetUsername("someuser")
	u.SetHost("irc.somehost.org")
	assert.Equal(t, "nick1!someuser@irc.somehost.org", u.Hostmask())
}

func TestUserAwayState(t *testing.T) {
	u := NewUser("nick1")
	assert.False(t, u.Away())

	u.SetAway(true, "gone fishing")
	assert.True(t, u.Away())
	assert.Equal(t, "gone fishing", u.AwayMessage())

	u.SetAway(false, "")
	assert.False(t, u.Away())
	assert.Empty(t, u.AwayMessage())
}

func TestUserAccountAndOperator(t *testing.T) {
	u := NewUser("nick1")
	assert.Empty(t, u.Account())

	u.SetAccount("someaccount")
	assert.Equal(t, "someaccount", u.Account())

	assert.False(t, u.Operator())
	u.SetOperator(true)
	assert.True(t, u.Operator())
}

func TestUserSetNick(t *testing.T) {
	u := NewUser("nick1")
	u.SetNick("nick2")
	assert.Equal(t, "nick2", u.Nick())
}
