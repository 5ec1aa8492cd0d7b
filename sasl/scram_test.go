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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/pbkdf2"
)

func TestScramName(t *testing.T) {
	assert.Equal(t, "SCRAM-SHA-256", NewScramSHA256Mechanism().Name())
}

func TestScramInitialResponseFormat(t *testing.T) {
	mech := NewScramSHA256Mechanism()
	resp, err := mech.InitialResponse(Credentials{Authcid: "user"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(resp), "n,,n=user,r="))
}

func TestScramServerNonceMustExtendClientNonce(t *testing.T) {
	mech := NewScramSHA256Mechanism()
	_, err := mech.InitialResponse(Credentials{Authcid: "user"})
	require.NoError(t, err)

	_, err = mech.ContinueAuth([]byte("r=totally-different,s=AAAA,i=4096"), Credentials{})
	assert.Error(t, err)
}

// TestScramFullExchange drives both sides of a SCRAM-SHA-256 exchange,
// replaying the server's half of RFC 5802 locally, to confirm the
// client's proof and final signature verification are self-consistent.
func TestScramFullExchange(t *testing.T) {
	creds := Credentials{Authcid: "user", Password: NewSecureString("pencil")}

	mech := NewScramSHA256Mechanism()
	clientFirst, err := mech.InitialResponse(creds)
	require.NoError(t, err)

	clientFirstStr := string(clientFirst)
	require.True(t, strings.HasPrefix(clientFirstStr, "n,,"))
	clientFirstBare := strings.TrimPrefix(clientFirstStr, "n,,")

	fields := parseFields(t, clientFirstBare)
	clientNonce := fields["r"]
	require.NotEmpty(t, clientNonce)

	salt := make([]byte, 16)
	_, err = rand.Read(salt)
	require.NoError(t, err)
	iterations := 4096
	serverNonce := clientNonce + "server-extension"

	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(salt), iterations)

	clientFinalBytes, err := mech.ContinueAuth([]byte(serverFirst), creds)
	require.NoError(t, err)
	clientFinal := string(clientFinalBytes)

	finalFields := parseFields(t, clientFinal)
	assert.Equal(t, serverNonce, finalFields["r"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("n,,")), finalFields["c"])

	clientProof, err := base64.StdEncoding.DecodeString(finalFields["p"])
	require.NoError(t, err)

	saltedPassword := pbkdf2.Key(creds.Password.Bytes(), salt, iterations, sha256.Size, sha256.New)
	clientKey := hmacSum(saltedPassword, "Client Key")
	storedKey := sha256.Sum256(clientKey)
	serverKey := hmacSum(saltedPassword, "Server Key")

	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", base64.StdEncoding.EncodeToString([]byte("n,,")), serverNonce)
	authMessage := clientFirstBare + "," + serverFirst + "," + clientFinalWithoutProof

	expectedSig := hmacSum(storedKey[:], authMessage)
	expectedProof := make([]byte, len(clientKey))
	for i := range clientKey {
		expectedProof[i] = clientKey[i] ^ expectedSig[i]
	}
	assert.Equal(t, expectedProof, clientProof)

	serverSignature := hmacSum(serverKey, authMessage)
	serverFinal := "v=" + base64.StdEncoding.EncodeToString(serverSignature)

	finalResp, err := mech.ContinueAuth([]byte(serverFinal), creds)
	require.NoError(t, err)
	assert.Empty(t, finalResp)
}

func TestScramFullExchangeRejectsForgedServerSignature(t *testing.T) {
	creds := Credentials{Authcid: "user", Password: NewSecureString("pencil")}
	mech := NewScramSHA256Mechanism()

	clientFirst, err := mech.InitialResponse(creds)
	require.NoError(t, err)
	clientFirstBare := strings.TrimPrefix(string(clientFirst), "n,,")
	clientNonce := parseFields(t, clientFirstBare)["r"]

	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	serverNonce := clientNonce + "server-extension"
	serverFirst := fmt.Sprintf("r=%s,s=%s,i=%d", serverNonce, base64.StdEncoding.EncodeToString(salt), 4096)

	_, err = mech.ContinueAuth([]byte(serverFirst), creds)
	require.NoError(t, err)

	forged := "v=" + base64.StdEncoding.EncodeToString([]byte("not-the-right-signature!"))
	_, err = mech.ContinueAuth([]byte(forged), creds)
	assert.Error(t, err)
}

func hmacSum(key []byte, data string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(data))
	return h.Sum(nil)
}

func parseFields(t *testing.T, s string) map[string]string {
	t.Helper()
	fields := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 {
			fields[kv[0]] = kv[1]
		}
	}
	return fields
}
