/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import (
	"sort"
	"strings"
	"time"
)

// ModeParamRule classifies how a channel mode letter consumes arguments
// out of a MODE command's parameter list.
type ModeParamRule int

const (
	// ModeParamNone never consumes an argument (e.g. 'n', 's', 't').
	ModeParamNone ModeParamRule = iota
	// ModeParamAlways consumes an argument whether being set or unset
	// (e.g. 'k', and every status-prefix letter).
	ModeParamAlways
	// ModeParamOnSet consumes an argument only when being set, not when
	// being unset (e.g. 'l').
	ModeParamOnSet
	// ModeParamList consumes an argument whether being set or unset, and
	// is stored as a list rather than a single value (b, e, I).
	ModeParamList
)

// ModeSpec is the per-letter rule table a server's CHANMODES/PREFIX
// ISUPPORT tokens are parsed into -- this generalizes the mode-letter
// requirements table idiom to argument-consumption rules instead of
// setter/target permission levels, since a client does not enforce
// channel-operator authorization itself.
type ModeSpec struct {
	// Param maps a mode letter to its argument-consumption rule.
	Param map[rune]ModeParamRule
	// Prefix maps a status-granting mode letter (o, v, h, a, q) to the
	// status-prefix character NAMES/WHO render for it (@, +, %, &, ~).
	Prefix map[rune]byte
	// PrefixOrder lists the status-prefix characters from highest to
	// lowest privilege, in the order the server's ISUPPORT PREFIX token
	// declared them -- the ordering a member's Prefixes string must be
	// kept sorted by.
	PrefixOrder []byte
}

// DefaultModeSpec returns the mode table implied by the common
// CHANMODES=beI,k,l,imnpst / PREFIX=(qaohv)~&@%+ ISUPPORT defaults. A
// client should prefer BuildModeSpec with the server's actual ISUPPORT
// tokens once RPL_ISUPPORT (005) arrives.
func DefaultModeSpec() *ModeSpec {
	return &ModeSpec{
		Param: map[rune]ModeParamRule{
			'b': ModeParamList,
			'e': ModeParamList,
			'I': ModeParamList,
			'k': ModeParamAlways,
			'l': ModeParamOnSet,
			'o': ModeParamAlways,
			'v': ModeParamAlways,
			'h': ModeParamAlways,
			'a': ModeParamAlways,
			'q': ModeParamAlways,
		},
		Prefix: map[rune]byte{
			'q': '~',
			'a': '&',
			'o': '@',
			'h': '%',
			'v': '+',
		},
		PrefixOrder: []byte{'~', '&', '@', '%', '+'},
	}
}

// BuildModeSpec parses the CHANMODES and PREFIX ISUPPORT tokens into a
// ModeSpec. chanmodes is the four comma-separated groups ("beI,k,l,imnpst");
// prefix is the "(ohv)@%+" form.
func BuildModeSpec(chanmodes, prefix string) *ModeSpec {
	spec := &ModeSpec{
		Param:  make(map[rune]ModeParamRule),
		Prefix: make(map[rune]byte),
	}

	groups := strings.SplitN(chanmodes, ",", 4)
	rules := []ModeParamRule{ModeParamList, ModeParamAlways, ModeParamOnSet, ModeParamNone}
	for i, group := range groups {
		if i >= len(rules) {
			break
		}
		for _, r := range group {
			spec.Param[r] = rules[i]
		}
	}

	if len(prefix) > 1 && prefix[0] == '(' {
		if end := strings.IndexByte(prefix, ')'); end > 0 {
			letters := prefix[1:end]
			chars := prefix[end+1:]
			for i, r := range letters {
				if i < len(chars) {
					spec.Prefix[r] = chars[i]
					spec.Param[r] = ModeParamAlways
					spec.PrefixOrder = append(spec.PrefixOrder, chars[i])
				}
			}
		}
	}

	return spec
}

// ApplyModeChange applies a MODE command's mode string and arguments to
// channel, consuming args according to spec. setBy and setAt are
// attributed to every list-mode entry added.
func ApplyModeChange(channel *Channel, spec *ModeSpec, modeString string, args []string, setBy string, setAt time.Time) error {
	adding := true
	argIdx := 0

	nextArg := func() (string, bool) {
		if argIdx >= len(args) {
			return "", false
		}
		a := args[argIdx]
		argIdx++
		return a, true
	}

	for _, r := range modeString {
		switch r {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}

		rule, known := spec.Param[r]
		if !known {
			rule = ModeParamNone
		}

		switch rule {
		case ModeParamList:
			mask, ok := nextArg()
			if !ok {
				return ErrUnknownChanMode
			}
			addFn, removeFn := channel.AddBan, channel.RemoveBan
			switch r {
			case 'e':
				addFn, removeFn = channel.AddExcept, channel.RemoveExcept
			case 'I':
				addFn, removeFn = channel.AddInvite, channel.RemoveInvite
			}
			if adding {
				addFn(mask, setBy, setAt)
			} else {
				removeFn(mask)
			}

		case ModeParamAlways:
			arg, ok := nextArg()
			if !ok {
				return ErrUnknownChanMode
			}
			if prefixChar, isStatus := spec.Prefix[r]; isStatus {
				applyStatusPrefix(channel, spec, arg, prefixChar, adding)
				continue
			}
			if adding {
				channel.SetMode(r, arg)
			} else {
				channel.UnsetMode(r)
			}

		case ModeParamOnSet:
			if adding {
				arg, ok := nextArg()
				if !ok {
					return ErrUnknownChanMode
				}
				channel.SetMode(r, arg)
			} else {
				channel.UnsetMode(r)
			}

		default: // ModeParamNone
			if adding {
				channel.SetMode(r, "")
			} else {
				channel.UnsetMode(r)
			}
		}
	}

	return nil
}

// applyStatusPrefix adds or removes a single status-prefix character from
// a member's Prefixes string, keeping it in highest-to-lowest order per
// spec.PrefixOrder -- a member with both @ and + must read "@+", never
// "+@", regardless of which mode was applied first.
func applyStatusPrefix(channel *Channel, spec *ModeSpec, nick string, prefixChar byte, adding bool) {
	member, ok := channel.Member(nick)
	if !ok {
		return
	}

	current := member.Prefixes
	has := strings.IndexByte(current, prefixChar) >= 0

	switch {
	case adding && !has:
		current += string(prefixChar)
	case !adding && has:
		current = strings.Replace(current, string(prefixChar), "", 1)
	default:
		return
	}

	member.Prefixes = sortPrefixesByRank(current, spec.PrefixOrder)
}

// sortPrefixesByRank reorders prefixes' characters highest-to-lowest per
// order. A character absent from order sorts after every ranked one,
// rather than panicking or being dropped.
func sortPrefixesByRank(prefixes string, order []byte) string {
	rank := make(map[byte]int, len(order))
	for i, c := range order {
		rank[c] = i
	}

	chars := []byte(prefixes)
	sort.SliceStable(chars, func(i, j int) bool {
		ri, iKnown := rank[chars[i]]
		rj, jKnown := rank[chars[j]]
		if !iKnown {
			ri = len(order)
		}
		if !jKnown {
			rj = len(order)
		}
		return ri < rj
	})
	return string(chars)
}
