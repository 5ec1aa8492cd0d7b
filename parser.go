/*
   Copyright (c) 2026, ircclient contributors
   All rights reserved.
   Use of this source code is governed by a BSD-style
   license that can be found in the LICENSE file.
*/

package ircclient

import "strings"

// Parse takes a single IRC-formatted line (with or without its trailing
// CRLF) and returns the Message it represents. It implements the full
// accept grammar of spec.md section 4.1: optional '@'-introduced tags,
// optional ':'-introduced prefix, a command (letters or a 3-digit
// numeric), zero or more middle parameters, and an optional
// ':'-introduced trailing parameter that captures the remainder of the
// line verbatim.
func Parse(line string) (*Message, error) {
	data := strings.TrimRight(line, "\r\n")

	// The 512-octet cap is measured on the wire form including CRLF, so
	// re-add it here for the length check regardless of what the caller
	// passed in.
	if len(data)+2 > MaxMsgLength {
		return nil, ErrMessageTooLong
	}

	if strings.TrimSpace(data) == "" {
		return nil, ErrEmptyMessage
	}

	msg := NewMessage()

	if strings.HasPrefix(data, "@") {
		end := strings.IndexByte(data, ' ')
		if end < 0 {
			end = len(data)
		}
		tagBlob := data[1:end]
		data = strings.TrimLeft(data[end:], " ")

		if tagBlob == "" {
			msg.Recycle()
			return nil, ErrEmptyTags
		}

		tags, err := parseTags(tagBlob)
		if err != nil {
			msg.Recycle()
			return nil, err
		}
		msg.Tags = tags
	}

	if strings.HasPrefix(data, ":") {
		end := strings.IndexByte(data, ' ')
		if end < 0 {
			msg.Recycle()
			return nil, ErrInvalidFormat
		}
		msg.Prefix = ParsePrefix(data[1:end])
		data = strings.TrimLeft(data[end:], " ")
	}

	data = collapseSpaces(data)
	if data == "" {
		msg.Recycle()
		return nil, ErrInvalidFormat
	}

	var command string
	if i := strings.IndexByte(data, ' '); i >= 0 {
		command = data[:i]
		data = strings.TrimLeft(data[i:], " ")
	} else {
		command = data
		data = ""
	}

	if !validCommand(command) {
		msg.Recycle()
		return nil, ErrInvalidFormat
	}
	msg.Command = strings.ToUpper(command)

	for data != "" {
		if data[0] == ':' {
			msg.AddTrailing(data[1:])
			break
		}

		i := strings.IndexByte(data, ' ')
		if i < 0 {
			msg.AddParam(data)
			break
		}

		msg.AddParam(data[:i])
		data = collapseSpaces(data[i:])
	}

	if len(msg.Params) > MaxMsgParams {
		msg.Recycle()
		return nil, ErrTooManyParams
	}

	if err := validateParams(msg); err != nil {
		msg.Recycle()
		return nil, err
	}

	return msg, nil
}

// collapseSpaces trims leading runs of one-or-more spaces to a single
// boundary, per the "<SPACE> = ' ' {' '}" grammar rule.
func collapseSpaces(s string) string {
	return strings.TrimLeft(s, " ")
}

// validCommand reports whether s is a bare IRC command word (letters
// only) or a 3-digit numeric reply code.
func validCommand(s string) bool {
	if len(s) == 3 && s[0] >= '0' && s[0] <= '9' {
		return s[1] >= '0' && s[1] <= '9' && s[2] >= '0' && s[2] <= '9'
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			return false
		}
	}
	return true
}

// validateParams enforces that no parameter contains NUL, CR, or LF --
// tag unescaping already strips those from tag values, but raw
// parameters must be rejected outright per spec.md section 4.1.
func validateParams(msg *Message) error {
	for _, p := range msg.Params {
		for _, r := range p {
			if r == 0 || r == '\r' || r == '\n' {
				return ErrValidationFailed
			}
		}
	}
	return nil
}

// parseTags splits a semicolon-separated tag blob into validated Tag
// values. Each entry is either "key" or "key=value"; an empty value after
// '=' is legal and distinct from having no '=' at all.
func parseTags(blob string) ([]Tag, error) {
	entries := strings.Split(blob, ";")
	tags := make([]Tag, 0, len(entries))

	for _, entry := range entries {
		if entry == "" {
			return nil, ErrInvalidTagKey
		}

		key := entry
		value := ""
		hasValue := false

		if i := strings.IndexByte(entry, '='); i >= 0 {
			key = entry[:i]
			value = entry[i+1:]
			hasValue = true
		}

		clientOnly, vendor, bareKey, err := ParseTagKey(key)
		if err != nil {
			return nil, err
		}

		if err := validateTagValue(value); err != nil {
			return nil, err
		}

		tags = append(tags, Tag{
			ClientOnly: clientOnly,
			Vendor:     vendor,
			Key:        bareKey,
			Value:      value,
			HasValue:   hasValue,
		})
	}

	return tags, nil
}

// validateTagValue rejects raw NUL/CR/LF bytes in an escaped tag value;
// CR and LF are only legal in their escaped ("\r", "\n") forms.
func validateTagValue(v string) error {
	for _, r := range v {
		if r == 0 || r == '\r' || r == '\n' {
			return ErrInvalidTagValue
		}
	}
	return nil
}
