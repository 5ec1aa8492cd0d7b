/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"sync"
	"time"
)

// floodBucket is a simple token bucket gating the writer task's rate of
// outbound messages. The core never rate-limits inbound traffic -- it
// trusts the server -- but the writer self-throttles so a burst of
// client-issued commands cannot get the connection flood-killed.
type floodBucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	last       time.Time
	now        func() time.Time
}

// newFloodBucket returns a bucket that refills at ratePerSecond tokens
// per second up to a burst capacity of burst tokens, starting full.
func newFloodBucket(ratePerSecond, burst float64) *floodBucket {
	return &floodBucket{
		tokens:     burst,
		maxTokens:  burst,
		refillRate: ratePerSecond,
		last:       time.Now(),
		now:        time.Now,
	}
}

// Take blocks the calling goroutine until a token is available, then
// consumes it. Intended to run only on the writer task.
func (f *floodBucket) Take() {
	for {
		wait := f.tryTake()
		if wait <= 0 {
			return
		}
		time.Sleep(wait)
	}
}

// tryTake attempts to consume a token, returning 0 on success or the
// duration to wait before retrying.
func (f *floodBucket) tryTake() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	elapsed := now.Sub(f.last).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	f.last = now

	f.tokens += elapsed * f.refillRate
	if f.tokens > f.maxTokens {
		f.tokens = f.maxTokens
	}

	if f.tokens >= 1 {
		f.tokens--
		return 0
	}

	deficit := 1 - f.tokens
	return time.Duration(deficit/f.refillRate*float64(time.Second)) + time.Millisecond
}
