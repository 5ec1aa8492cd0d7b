/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ctcp

import "time"

// ClientInfo is the metadata a Responder answers VERSION/SOURCE/FINGER
// requests with.
type ClientInfo struct {
	Version    string
	Source     string
	FingerInfo string
	UserInfo   string
}

// Responder answers CTCP requests automatically. It never responds to a
// request for CmdAction, and always replies over NOTICE per the
// convention that a CTCP reply must never itself be able to trigger a
// reply loop.
type Responder struct {
	info ClientInfo
	now  func() time.Time
}

// NewResponder returns a Responder configured with info.
func NewResponder(info ClientInfo) *Responder {
	return &Responder{info: info, now: time.Now}
}

// Reply computes the CTCP reply for an incoming request, if any. ok is
// false when request warrants no reply (ACTION, or an unrecognized
// command).
func (r *Responder) Reply(request Message) (reply Message, ok bool) {
	switch request.Command {
	case CmdVersion:
		return Message{Command: CmdVersion, Data: r.info.Version}, true
	case CmdSource:
		return Message{Command: CmdSource, Data: r.info.Source}, true
	case CmdFinger:
		return Message{Command: CmdFinger, Data: r.info.FingerInfo}, true
	case CmdUserInfo:
		return Message{Command: CmdUserInfo, Data: r.info.UserInfo}, true
	case CmdTime:
		return Message{Command: CmdTime, Data: r.now().Format(time.RFC1123Z)}, true
	case CmdPing:
		return Message{Command: CmdPing, Data: request.Data}, true
	case CmdClientInfo:
		return Message{Command: CmdClientInfo, Data: "ACTION VERSION TIME PING FINGER USERINFO CLIENTINFO SOURCE"}, true
	default:
		return Message{}, false
	}
}
