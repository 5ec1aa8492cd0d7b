/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package sasl

import (
	"encoding/base64"
	"fmt"
)

// AuthenticateChunkSize is the maximum octet length of a single
// AUTHENTICATE payload parameter, per the IRCv3 SASL specification.
const AuthenticateChunkSize = 400

// Error is a sentinel error constant, matching the root package's Error
// string idiom so callers can compare with errors.Is.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrUnsupportedMechanism Error = "sasl: unsupported mechanism"
	ErrNotInProgress        Error = "sasl: authenticate called outside an in-progress exchange"
	ErrAlreadyInProgress    Error = "sasl: start called while already in progress"
	ErrAborted              Error = "sasl: authentication aborted"
)

// Credentials bundles the identity material a Mechanism needs. Password
// is a SecureString so it can be wiped once the exchange concludes.
type Credentials struct {
	Authzid  string
	Authcid  string
	Password SecureString
}

// String never reveals the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Authzid:%q Authcid:%q Password:%s}", c.Authzid, c.Authcid, c.Password.Redacted())
}

// Mechanism is a single SASL mechanism's handler.
type Mechanism interface {
	// Name is the mechanism's IRCv3 wire name, e.g. "PLAIN".
	Name() string
	// InitialResponse returns the bytes to send as the first
	// AUTHENTICATE payload, before any server challenge.
	InitialResponse(creds Credentials) ([]byte, error)
	// ContinueAuth responds to an optional server challenge. A nil
	// challenge means the server sent "AUTHENTICATE +" to request
	// continuation with no data.
	ContinueAuth(challenge []byte, creds Credentials) ([]byte, error)
}

// AuthState is the authenticator's state machine position.
type AuthState int

const (
	StateIdle AuthState = iota
	StateInProgress
	StateSuccess
	StateFailed
)

func (s AuthState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInProgress:
		return "InProgress"
	case StateSuccess:
		return "Success"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Registry maps a mechanism name to its handler.
type Registry struct {
	mechanisms map[string]Mechanism
}

// NewRegistry returns a Registry pre-populated with PLAIN, EXTERNAL, and
// SCRAM-SHA-256.
func NewRegistry() *Registry {
	r := &Registry{mechanisms: make(map[string]Mechanism)}
	r.Register(PlainMechanism{})
	r.Register(ExternalMechanism{})
	r.Register(NewScramSHA256Mechanism())
	return r
}

// Register adds or replaces a mechanism in the registry.
func (r *Registry) Register(m Mechanism) {
	r.mechanisms[m.Name()] = m
}

// Get looks up a mechanism by name.
func (r *Registry) Get(name string) (Mechanism, bool) {
	m, ok := r.mechanisms[name]
	return m, ok
}

// Authenticator drives one SASL exchange end to end, tracking the state
// machine and the mechanism in use.
type Authenticator struct {
	registry  *Registry
	state     AuthState
	mechanism Mechanism
	creds     Credentials
	failure   string
}

// NewAuthenticator returns an Authenticator backed by registry.
func NewAuthenticator(registry *Registry) *Authenticator {
	return &Authenticator{registry: registry, state: StateIdle}
}

// State returns the authenticator's current state.
func (a *Authenticator) State() AuthState {
	return a.state
}

// FailureReason returns the reason recorded by the last HandleFailure
// call, if any.
func (a *Authenticator) FailureReason() string {
	return a.failure
}

// Start begins an exchange with the named mechanism, valid only from
// Idle or Failed. It returns the mechanism's initial response as
// AUTHENTICATE payload chunks ready to send.
func (a *Authenticator) Start(mechanismName string, creds Credentials) (payloads []string, err error) {
	if a.state != StateIdle && a.state != StateFailed {
		return nil, ErrAlreadyInProgress
	}

	mech, ok := a.registry.Get(mechanismName)
	if !ok {
		return nil, ErrUnsupportedMechanism
	}

	resp, err := mech.InitialResponse(creds)
	if err != nil {
		return nil, err
	}

	a.mechanism = mech
	a.creds = creds
	a.state = StateInProgress
	a.failure = ""

	return EncodePayload(resp), nil
}

// Continue responds to an in-progress server challenge. challenge is nil
// for a bare "AUTHENTICATE +" continuation request.
func (a *Authenticator) Continue(challenge []byte) (payloads []string, err error) {
	if a.state != StateInProgress {
		return nil, ErrNotInProgress
	}

	resp, err := a.mechanism.ContinueAuth(challenge, a.creds)
	if err != nil {
		return nil, err
	}

	return EncodePayload(resp), nil
}

// HandleSuccess terminates the exchange successfully, per numeric 903.
func (a *Authenticator) HandleSuccess() {
	a.state = StateSuccess
}

// HandleFailure terminates the exchange unsuccessfully, per numeric 904.
func (a *Authenticator) HandleFailure(reason string) {
	a.state = StateFailed
	a.failure = reason
}

// Abort cancels an in-progress exchange, per numeric 906.
func (a *Authenticator) Abort() {
	a.state = StateFailed
	a.failure = string(ErrAborted)
}

// DecodeChallenge decodes a base64 AUTHENTICATE payload. "+" decodes to
// an empty, non-nil byte slice.
func DecodeChallenge(payload string) ([]byte, error) {
	if payload == "+" {
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(payload)
}

// EncodePayload base64-encodes data and splits it into AUTHENTICATE
// payload chunks of at most AuthenticateChunkSize octets each. An empty
// input encodes to a single "+" chunk; a payload whose encoded length is
// an exact multiple of the chunk size gets a trailing empty "+" chunk so
// the receiver knows the payload is complete.
func EncodePayload(data []byte) []string {
	if len(data) == 0 {
		return []string{"+"}
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	var chunks []string
	for len(encoded) > 0 {
		n := AuthenticateChunkSize
		if n > len(encoded) {
			n = len(encoded)
		}
		chunks = append(chunks, encoded[:n])
		encoded = encoded[n:]
	}

	if len(chunks) > 0 && len(chunks[len(chunks)-1]) == AuthenticateChunkSize {
		chunks = append(chunks, "+")
	}

	return chunks
}
