/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package sasl

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ScramSHA256Mechanism implements the client side of SCRAM-SHA-256
// (RFC 5802/7677). No SCRAM implementation exists anywhere in the
// example corpus retrieved for this module, so this mechanism is built
// directly on the standard library crypto primitives plus
// golang.org/x/crypto/pbkdf2 for the salted-password derivation -- see
// DESIGN.md for why no third-party SCRAM library was available to ground
// this on instead.
//
// A ScramSHA256Mechanism instance holds the nonce and first-message state
// for a single in-progress exchange; it is not safe to share across two
// concurrent exchanges. A connection's Authenticator should be built over
// its own private Registry so exchanges never overlap.
type ScramSHA256Mechanism struct {
	clientNonce      string
	clientFirstBare  string
	serverSignature  []byte
	authMessageReady bool
}

// NewScramSHA256Mechanism returns a fresh, single-exchange mechanism
// instance.
func NewScramSHA256Mechanism() *ScramSHA256Mechanism {
	return &ScramSHA256Mechanism{}
}

func (m *ScramSHA256Mechanism) Name() string { return "SCRAM-SHA-256" }

func (m *ScramSHA256Mechanism) InitialResponse(creds Credentials) ([]byte, error) {
	nonce, err := randomNonce(24)
	if err != nil {
		return nil, fmt.Errorf("sasl: generating SCRAM nonce: %w", err)
	}
	m.clientNonce = nonce

	username := scramEscape(creds.Authcid)
	m.clientFirstBare = fmt.Sprintf("n=%s,r=%s", username, m.clientNonce)

	return []byte("n,," + m.clientFirstBare), nil
}

func (m *ScramSHA256Mechanism) ContinueAuth(challenge []byte, creds Credentials) ([]byte, error) {
	if !m.authMessageReady {
		return m.handleServerFirst(challenge, creds)
	}
	return m.handleServerFinal(challenge)
}

func (m *ScramSHA256Mechanism) handleServerFirst(challenge []byte, creds Credentials) ([]byte, error) {
	fields, err := parseScramFields(string(challenge))
	if err != nil {
		return nil, err
	}

	serverNonce := fields["r"]
	if !strings.HasPrefix(serverNonce, m.clientNonce) {
		return nil, Error("sasl: SCRAM server nonce does not extend client nonce")
	}

	saltB64 := fields["s"]
	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return nil, fmt.Errorf("sasl: decoding SCRAM salt: %w", err)
	}

	iterations, err := strconv.Atoi(fields["i"])
	if err != nil || iterations <= 0 {
		return nil, Error("sasl: invalid SCRAM iteration count")
	}

	saltedPassword := pbkdf2.Key(creds.Password.Bytes(), salt, iterations, sha256.Size, sha256.New)

	clientKey := hmacSHA256(saltedPassword, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)
	serverKey := hmacSHA256(saltedPassword, []byte("Server Key"))

	channelBinding := base64.StdEncoding.EncodeToString([]byte("n,,"))
	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", channelBinding, serverNonce)

	serverFirstMessage := string(challenge)
	authMessage := m.clientFirstBare + "," + serverFirstMessage + "," + clientFinalWithoutProof

	clientSignature := hmacSHA256(storedKey[:], []byte(authMessage))
	clientProof := xorBytes(clientKey, clientSignature)

	serverSig := hmacSHA256(serverKey, []byte(authMessage))
	m.serverSignature = serverSig
	m.authMessageReady = true

	clientFinal := clientFinalWithoutProof + ",p=" + base64.StdEncoding.EncodeToString(clientProof)
	return []byte(clientFinal), nil
}

func (m *ScramSHA256Mechanism) handleServerFinal(challenge []byte) ([]byte, error) {
	fields, err := parseScramFields(string(challenge))
	if err != nil {
		return nil, err
	}

	gotSig, err := base64.StdEncoding.DecodeString(fields["v"])
	if err != nil {
		return nil, fmt.Errorf("sasl: decoding SCRAM server signature: %w", err)
	}

	if !hmac.Equal(gotSig, m.serverSignature) {
		return nil, Error("sasl: SCRAM server signature mismatch")
	}

	return []byte{}, nil
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func parseScramFields(s string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[kv[0]] = kv[1]
	}
	if _, ok := fields["r"]; !ok {
		if _, ok := fields["v"]; !ok {
			return nil, Error("sasl: malformed SCRAM server message")
		}
	}
	return fields, nil
}

func scramEscape(s string) string {
	s = strings.ReplaceAll(s, "=", "=3D")
	s = strings.ReplaceAll(s, ",", "=2C")
	return s
}

func randomNonce(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}
