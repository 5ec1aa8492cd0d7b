/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFloodBucketStartsFull(t *testing.T) {
	f := newFloodBucket(1, 3)
	assert.Equal(t, time.Duration(0), f.tryTake())
	assert.Equal(t, time.Duration(0), f.tryTake())
	assert.Equal(t, time.Duration(0), f.tryTake())
}

func TestFloodBucketExhaustionWaits(t *testing.T) {
	f := newFloodBucket(1, 1)
	assert.Equal(t, time.Duration(0), f.tryTake())
	assert.Greater(t, f.tryTake(), time.Duration(0))
}

func TestFloodBucketRefillsOverTime(t *testing.T) {
	clock := time.Now()
	f := newFloodBucket(2, 1)
	f.now = func() time.Time { return clock }

	assert.Equal(t, time.Duration(0), f.tryTake())

	clock = clock.Add(500 * time.Millisecond)
	assert.Equal(t, time.Duration(0), f.tryTake())
}

func TestFloodBucketNeverExceedsBurstCapacity(t *testing.T) {
	clock := time.Now()
	f := newFloodBucket(100, 2)
	f.now = func() time.Time { return clock }

	clock = clock.Add(time.Hour)
	assert.Equal(t, time.Duration(0), f.tryTake())
	assert.Equal(t, time.Duration(0), f.tryTake())
	assert.Greater(t, f.tryTake(), time.Duration(0))
}
