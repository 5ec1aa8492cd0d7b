/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusEmitDispatchesToAllSubscribers(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(0, func(e Event) { got = append(got, "a:"+e.Kind()) })
	b.Subscribe(0, func(e Event) { got = append(got, "b:"+e.Kind()) })

	b.Emit(Connected{ConnID: "conn1"})

	assert.Equal(t, []string{"a:Connected", "b:Connected"}, got)
}

func TestBusEmitOrdersByDescendingPriority(t *testing.T) {
	b := NewBus()
	var order []int

	b.Subscribe(1, func(e Event) { order = append(order, 1) })
	b.Subscribe(5, func(e Event) { order = append(order, 5) })
	b.Subscribe(3, func(e Event) { order = append(order, 3) })

	b.Emit(Connected{})

	assert.Equal(t, []int{5, 3, 1}, order)
}

func TestBusEmitStableForEqualPriority(t *testing.T) {
	b := NewBus()
	var order []string

	b.Subscribe(0, func(e Event) { order = append(order, "first") })
	b.Subscribe(0, func(e Event) { order = append(order, "second") })
	b.Subscribe(0, func(e Event) { order = append(order, "third") })

	b.Emit(Connected{})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBusUnsubscribeRemovesHandler(t *testing.T) {
	b := NewBus()
	var calls int

	id := b.Subscribe(0, func(e Event) { calls++ })
	b.Emit(Connected{})
	assert.Equal(t, 1, calls)

	b.Unsubscribe(id)
	b.Emit(Connected{})
	assert.Equal(t, 1, calls)
}

func TestBusUnsubscribeUnknownIDIsNoop(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { b.Unsubscribe(999) })
}

func TestBusEmitWithNoSubscribersIsNoop(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { b.Emit(Connected{}) })
}
