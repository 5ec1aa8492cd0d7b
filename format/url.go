/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package format

import "regexp"

// urlPattern matches an http(s):// or www. URL, stopping before trailing
// punctuation that is more likely sentence structure than part of the
// link (closing parens/brackets, terminal periods, commas).
var urlPattern = regexp.MustCompile(`(?:https?://|www\.)\S+`)

var trailingPunct = regexp.MustCompile(`[.,;:!?)\]}'"]+$`)

// URLs scans text (plain, post-Strip) for URLs and returns them in
// order of appearance, with trailing punctuation trimmed off.
func URLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	urls := make([]string, len(matches))
	for i, m := range matches {
		urls[i] = trailingPunct.ReplaceAllString(m, "")
	}
	return urls
}
