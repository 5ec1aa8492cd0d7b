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

func TestCommandRendering(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{"nick", NickCmd{Nick: "newnick"}, "NICK newnick\r\n"},
		{"user", UserCmd{Username: "u", Realname: "Real Name"}, "USER u 0 * :Real Name\r\n"},
		{"pass", PassCmd{Password: "hunter2"}, "PASS hunter2\r\n"},
		{"quit with reason", QuitCmd{Reason: "bye"}, "QUIT :bye\r\n"},
		{"quit without reason", QuitCmd{}, "QUIT\r\n"},
		{"join single channel", JoinCmd{Channels: []string{"#chan"}}, "JOIN #chan\r\n"},
		{"join multiple with keys", JoinCmd{Channels: []string{"#a", "#b"}, Keys: []string{"key1"}}, "JOIN #a,#b key1\r\n"},
		{"part with reason", PartCmd{Channels: []string{"#chan"}, Reason: "later"}, "PART #chan :later\r\n"},
		{"topic query", TopicCmd{Channel: "#chan"}, "TOPIC #chan\r\n"},
		{"privmsg", PrivmsgCmd{Target: "#chan", Text: "hello"}, "PRIVMSG #chan :hello\r\n"},
		{"notice", NoticeCmd{Target: "nick1", Text: "hi"}, "NOTICE nick1 :hi\r\n"},
		{"whois", WhoisCmd{Nick: "nick1"}, "WHOIS nick1\r\n"},
		{"whowas with count", WhowasCmd{Nick: "nick1", Count: 5}, "WHOWAS nick1 5\r\n"},
		{"ping", PingCmd{Token: "abc123"}, "PING :abc123\r\n"},
		{"pong", PongCmd{Token: "abc123"}, "PONG :abc123\r\n"},
		{"cap ls", CapLsCmd{}, "CAP LS 302\r\n"},
		{"cap end", CapEndCmd{}, "CAP END\r\n"},
		{"cap req", CapReqCmd{Capabilities: []Capability{CapSASL, CapServerTime}}, "CAP REQ :sasl server-time\r\n"},
		{"cap ack", CapAckCmd{Capabilities: []Capability{CapSASL}}, "CAP ACK :sasl\r\n"},
		{"cap nak", CapNakCmd{Capabilities: []Capability{CapSASL}}, "CAP NAK :sasl\r\n"},
		{"authenticate", AuthenticateCmd{Payload: "+"}, "AUTHENTICATE +\r\n"},
		{"mode with args", ModeCmd{Target: "#chan", ModeString: "+o", Args: []string{"nick1"}}, "MODE #chan +o nick1\r\n"},
		{"raw with trailing", RawCmd{Command: "privmsg", Params: []string{"#chan"}, Trailing: "hi", HasTrailing: true}, "PRIVMSG #chan :hi\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.cmd.ToMessage()
			assert.Equal(t, tt.expected, msg.Render())
		})
	}
}

func TestTopicCmdSettingNilVsEmpty(t *testing.T) {
	empty := ""
	setEmpty := TopicCmd{Channel: "#chan", Topic: &empty}
	assert.Equal(t, "TOPIC #chan :\r\n", setEmpty.ToMessage().Render())

	query := TopicCmd{Channel: "#chan"}
	assert.Equal(t, "TOPIC #chan\r\n", query.ToMessage().Render())
}
