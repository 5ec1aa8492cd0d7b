/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import "strings"

// foldPairs holds the RFC 1459 case-mapping equivalences: '{', '}', '|',
// and '^' are equivalent to '[', ']', '\\', and '~' respectively, and
// Casefold rewrites each of the former as the latter.
var foldPairs = [...][2]byte{
	{'{', '['},
	{'}', ']'},
	{'|', '\\'},
	{'^', '~'},
}

// Casefold normalizes a nickname or channel name per RFC 1459 casemapping
// so it can be used as a directory key. All ASCII letters are lowercased,
// and the RFC 1459 symbol equivalences are applied on top of that.
func Casefold(s string) string {
	b := []byte(strings.ToLower(s))
	for i, c := range b {
		for _, pair := range foldPairs {
			if c == pair[0] {
				b[i] = pair[1]
				break
			}
		}
	}
	return string(b)
}

// CasefoldEqual reports whether a and b are equivalent under RFC 1459
// casemapping.
func CasefoldEqual(a, b string) bool {
	return Casefold(a) == Casefold(b)
}
