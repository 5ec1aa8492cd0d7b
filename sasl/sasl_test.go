/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package sasl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKnowsBuiltinMechanisms(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("PLAIN")
	assert.True(t, ok)
	_, ok = r.Get("EXTERNAL")
	assert.True(t, ok)
	_, ok = r.Get("SCRAM-SHA-256")
	assert.True(t, ok)

	_, ok = r.Get("DIGEST-MD5")
	assert.False(t, ok)
}

func TestAuthenticatorStartUnknownMechanism(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	_, err := a.Start("BOGUS", Credentials{})
	assert.ErrorIs(t, err, ErrUnsupportedMechanism)
	assert.Equal(t, StateIdle, a.State())
}

func TestAuthenticatorStartPlainProducesPayload(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	creds := Credentials{Authcid: "nick1", Password: NewSecureString("hunter2")}

	payloads, err := a.Start("PLAIN", creds)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, StateInProgress, a.State())
	assert.NotEqual(t, "+", payloads[0])
}

func TestAuthenticatorStartTwiceFails(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	creds := Credentials{Authcid: "nick1", Password: NewSecureString("hunter2")}

	_, err := a.Start("PLAIN", creds)
	require.NoError(t, err)

	_, err = a.Start("PLAIN", creds)
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
}

func TestAuthenticatorContinueWithoutStartFails(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	_, err := a.Continue([]byte("+"))
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestAuthenticatorHandleSuccessAndFailure(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	creds := Credentials{Authcid: "nick1", Password: NewSecureString("hunter2")}
	_, _ = a.Start("PLAIN", creds)

	a.HandleSuccess()
	assert.Equal(t, StateSuccess, a.State())

	a2 := NewAuthenticator(NewRegistry())
	_, _ = a2.Start("PLAIN", creds)
	a2.HandleFailure("invalid credentials")
	assert.Equal(t, StateFailed, a2.State())
	assert.Equal(t, "invalid credentials", a2.FailureReason())
}

func TestAuthenticatorAbort(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	creds := Credentials{Authcid: "nick1", Password: NewSecureString("hunter2")}
	_, _ = a.Start("PLAIN", creds)
	a.Abort()
	assert.Equal(t, StateFailed, a.State())
	assert.Equal(t, string(ErrAborted), a.FailureReason())
}

func TestAuthenticatorRestartsAfterFailure(t *testing.T) {
	a := NewAuthenticator(NewRegistry())
	creds := Credentials{Authcid: "nick1", Password: NewSecureString("hunter2")}
	_, _ = a.Start("PLAIN", creds)
	a.HandleFailure("nope")

	_, err := a.Start("PLAIN", creds)
	assert.NoError(t, err)
	assert.Equal(t, StateInProgress, a.State())
}

func TestDecodeChallengePlusIsEmpty(t *testing.T) {
	data, err := DecodeChallenge("+")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.NotNil(t, data)
}

func TestDecodeChallengeBase64(t *testing.T) {
	data, err := DecodeChallenge("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestEncodePayloadEmptyIsPlus(t *testing.T) {
	chunks := EncodePayload(nil)
	assert.Equal(t, []string{"+"}, chunks)
}

func TestEncodePayloadSplitsLongPayloads(t *testing.T) {
	data := []byte(strings.Repeat("a", 1000))
	chunks := EncodePayload(data)

	require.True(t, len(chunks) >= 2)
	for _, c := range chunks[:len(chunks)-1] {
		assert.LessOrEqual(t, len(c), AuthenticateChunkSize)
	}
}

func TestEncodePayloadExactMultipleGetsTrailingPlus(t *testing.T) {
	// Construct raw data whose base64 encoding is exactly one chunk size.
	data := make([]byte, AuthenticateChunkSize/4*3)
	chunks := EncodePayload(data)
	require.Len(t, chunks, 2)
	assert.Equal(t, "+", chunks[len(chunks)-1])
}
