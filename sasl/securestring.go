/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package sasl implements the IRCv3 SASL authentication registry: a
// mechanism name maps to a handler that produces AUTHENTICATE payloads,
// driven by a small state machine that never logs a credential.
package sasl

// SecureString holds a credential in a byte slice the caller can wipe
// explicitly once authentication completes, instead of relying on the
// garbage collector to drop the only reference to an immutable string.
type SecureString struct {
	b []byte
}

// NewSecureString copies s into a SecureString.
func NewSecureString(s string) SecureString {
	b := make([]byte, len(s))
	copy(b, s)
	return SecureString{b: b}
}

// String returns the decoded value. Callers must not retain the result
// past a Zero call.
func (s SecureString) String() string {
	return string(s.b)
}

// Bytes returns the underlying bytes directly, without a copy.
func (s SecureString) Bytes() []byte {
	return s.b
}

// Zero overwrites the backing array with zeroes, so the credential does
// not linger in memory once no longer needed.
func (s *SecureString) Zero() {
	for i := range s.b {
		s.b[i] = 0
	}
}

// Redacted never reveals the value -- used by Debug/String implementations
// on any struct embedding a credential.
func (s SecureString) Redacted() string {
	if len(s.b) == 0 {
		return ""
	}
	return "[REDACTED]"
}

// GoString redacts the value in %#v output, the same way as Redacted.
func (s SecureString) GoString() string {
	return s.Redacted()
}
