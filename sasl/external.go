/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package sasl

// ExternalMechanism implements SASL EXTERNAL: authentication is carried
// by the TLS client certificate already presented during the handshake,
// so the only in-band content is an optional authzid.
type ExternalMechanism struct{}

func (ExternalMechanism) Name() string { return "EXTERNAL" }

func (ExternalMechanism) InitialResponse(creds Credentials) ([]byte, error) {
	return []byte(creds.Authzid), nil
}

func (ExternalMechanism) ContinueAuth(challenge []byte, creds Credentials) ([]byte, error) {
	return nil, Error("sasl: EXTERNAL does not support continuation")
}
