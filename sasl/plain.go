/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package sasl

import "bytes"

// PlainMechanism implements SASL PLAIN (RFC 4616): a single response of
// authzid NUL authcid NUL password.
type PlainMechanism struct{}

func (PlainMechanism) Name() string { return "PLAIN" }

func (PlainMechanism) InitialResponse(creds Credentials) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(creds.Authzid)
	buf.WriteByte(0)
	buf.WriteString(creds.Authcid)
	buf.WriteByte(0)
	buf.Write(creds.Password.Bytes())
	return buf.Bytes(), nil
}

func (PlainMechanism) ContinueAuth(challenge []byte, creds Credentials) ([]byte, error) {
	return nil, Error("sasl: PLAIN does not support continuation")
}
