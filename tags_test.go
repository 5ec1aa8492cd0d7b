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
	"github.com/stretchr/testify/require"
)

func TestParseTagKey(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantClientOnly bool
		wantVendor     string
		wantKey        string
		wantErr        bool
	}{
		{"bare key", "time", false, "", "time", false},
		{"client-only key", "+draft/reply", true, "draft", "reply", false},
		{"vendored key", "example.com/foo", false, "example.com", "foo", false},
		{"empty key", "", false, "", "", true},
		{"bare plus", "+", false, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientOnly, vendor, key, err := ParseTagKey(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClientOnly, clientOnly)
			assert.Equal(t, tt.wantVendor, vendor)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestTagValueEscaping(t *testing.T) {
	tests := []struct {
		name    string
		decoded string
		escaped string
	}{
		{"semicolon", "a;b", `a\:b`},
		{"space", "a b", `a\sb`},
		{"backslash", `a\b`, `a\\b`},
		{"cr and lf", "a\r\nb", `a\r\nb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.escaped, escapeTagValue(tt.decoded))
			assert.Equal(t, tt.decoded, unescapeTagValue(tt.escaped))
		})
	}
}

func TestTagUnescapeUnknownSequencePreservesChar(t *testing.T) {
	assert.Equal(t, "ax", unescapeTagValue(`a\x`))
}

func TestTagKeyStringRoundTrip(t *testing.T) {
	tag := Tag{ClientOnly: true, Vendor: "example.com", Key: "foo"}
	assert.Equal(t, "+example.com/foo", tag.KeyString())
}

func TestNewTagEscapesValue(t *testing.T) {
	tag := NewTag("note", "a b")
	assert.Equal(t, `a\sb`, tag.Value)
	assert.Equal(t, "a b", tag.Unescaped())
}
