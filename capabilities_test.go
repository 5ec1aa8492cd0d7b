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

func TestCapabilitySetBasics(t *testing.T) {
	set := NewCapabilitySet(CapSASL, CapServerTime)
	assert.True(t, set.Has(CapSASL))
	assert.False(t, set.Has(CapBatch))
	assert.Equal(t, 2, set.Len())

	set.Add(CapBatch)
	assert.True(t, set.Has(CapBatch))

	set.Remove(CapBatch)
	assert.False(t, set.Has(CapBatch))
}

func TestCapabilitySetIntersect(t *testing.T) {
	requested := NewCapabilitySet(CapSASL, CapServerTime, CapBatch)
	offered := NewCapabilitySet(CapSASL, CapBatch, CapMultiPrefix)

	got := requested.Intersect(offered)

	assert.Equal(t, 2, got.Len())
	assert.True(t, got.Has(CapSASL))
	assert.True(t, got.Has(CapBatch))
	assert.False(t, got.Has(CapServerTime))
	assert.False(t, got.Has(CapMultiPrefix))
}

func TestCapabilitySetSlice(t *testing.T) {
	set := NewCapabilitySet(CapSASL)
	slice := set.Slice()
	assert.Equal(t, []Capability{CapSASL}, slice)
}
