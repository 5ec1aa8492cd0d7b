/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"math/rand"
	"time"
)

// backoff computes exponential reconnect delays with a cap and jitter,
// generalizing the teacher's tempDelay accept-error backoff loop in
// Server.Serve (which doubles from 5ms to a 1s cap with no jitter) to a
// named, reusable helper with a wider range and proportional jitter.
type backoff struct {
	base     time.Duration
	capDelay time.Duration
	jitter   float64
	current  time.Duration
}

// newBackoff returns a backoff starting at base, doubling on each Next()
// call up to capDelay, with +/-jitter (a fraction of the delay, e.g. 0.20
// for +/-20%) applied to every returned value.
func newBackoff(base, capDelay time.Duration, jitter float64) *backoff {
	return &backoff{base: base, capDelay: capDelay, jitter: jitter}
}

// Next returns the next delay and advances the internal doubling state.
func (b *backoff) Next() time.Duration {
	if b.current == 0 {
		b.current = b.base
	} else {
		b.current *= 2
		if b.current > b.capDelay {
			b.current = b.capDelay
		}
	}
	return applyJitter(b.current, b.jitter)
}

// Reset clears the backoff back to its initial state, called after the
// first successful registration following a failure streak.
func (b *backoff) Reset() {
	b.current = 0
}

func applyJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	delta := float64(d) * jitter
	offset := (rand.Float64()*2 - 1) * delta
	result := float64(d) + offset
	if result < 0 {
		result = 0
	}
	return time.Duration(result)
}
