/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

// Package format parses and strips mIRC-style inline formatting codes and
// detects URLs within formatted message text.
package format

import (
	"strconv"
	"strings"
)

// Control codes.
const (
	Bold          = '\x02'
	Italic        = '\x1D'
	Underline     = '\x1F'
	Strikethrough = '\x1E'
	Monospace     = '\x11'
	Reverse       = '\x16'
	Color         = '\x03'
	Reset         = '\x0F'
)

// Style is the cumulative formatting state in effect for a Span.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Monospace     bool
	Reverse       bool
	// Foreground/Background are the one- or two-digit mIRC color numbers
	// read from the \x03 code, without a range check; Background is -1
	// when the code gives none. HasColor is false when no \x03 code is in
	// effect.
	HasColor   bool
	Foreground int
	Background int
}

// Span is a run of text sharing one Style.
type Span struct {
	Text  string
	Style Style
}

// Parse splits s into an ordered sequence of styled spans.
func Parse(s string) []Span {
	var spans []Span
	style := Style{}
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			spans = append(spans, Span{Text: text.String(), Style: style})
			text.Reset()
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case Bold:
			flush()
			style.Bold = !style.Bold
		case Italic:
			flush()
			style.Italic = !style.Italic
		case Underline:
			flush()
			style.Underline = !style.Underline
		case Strikethrough:
			flush()
			style.Strikethrough = !style.Strikethrough
		case Monospace:
			flush()
			style.Monospace = !style.Monospace
		case Reverse:
			flush()
			style.Reverse = !style.Reverse
		case Reset:
			flush()
			style = Style{}
		case Color:
			flush()
			i = parseColor(runes, i, &style)
		default:
			text.WriteRune(runes[i])
		}
	}
	flush()

	return spans
}

// parseColor consumes an optional "FF[,BB]" numeric pair following a
// \x03 code and updates style in place, returning the index of the last
// rune consumed.
func parseColor(runes []rune, i int, style *Style) int {
	i++ // skip the \x03 itself

	start := i
	for i < len(runes) && i-start < 2 && isDigit(runes[i]) {
		i++
	}

	if i == start {
		style.HasColor = false
		return i - 1
	}

	fg, _ := strconv.Atoi(string(runes[start:i]))
	style.HasColor = true
	style.Foreground = fg
	style.Background = -1

	if i < len(runes) && runes[i] == ',' {
		bgStart := i + 1
		j := bgStart
		for j < len(runes) && j-bgStart < 2 && isDigit(runes[j]) {
			j++
		}
		if j > bgStart {
			bg, _ := strconv.Atoi(string(runes[bgStart:j]))
			style.Background = bg
			i = j - 1
			return i
		}
	}

	return i - 1
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Strip returns s with every formatting code removed, leaving plain text.
func Strip(s string) string {
	var b strings.Builder
	for _, span := range Parse(s) {
		b.WriteString(span.Text)
	}
	return b.String()
}
