// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"encoding/json"
	"strings"
)

// The backend emits meta payloads as Python dict reprs, so single-quoted
// keys and values and the literals True/False/None are the common case.
// parseRelaxed first tries strict JSON, then normalizes the repr form.
// It never fails loudly: callers get (nil, false) and keep the raw text.

// parseRelaxed decodes a JSON-like payload tolerantly.
func parseRelaxed(raw string) (map[string]any, bool) {
	if raw == "" {
		return nil, false
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded, true
	}

	if err := json.Unmarshal([]byte(normalizeRepr(raw)), &decoded); err == nil {
		return decoded, true
	}
	return nil, false
}

// normalizeRepr rewrites a Python-repr payload into JSON: single-quoted
// strings become double-quoted (escaping embedded double quotes), and bare
// True/False/None become their JSON spellings. Content inside strings is
// otherwise untouched.
func normalizeRepr(raw string) string {
	var out strings.Builder
	out.Grow(len(raw) + 16)

	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		r := runes[i]

		switch {
		case r == '\'':
			// Single-quoted string: emit as double-quoted.
			out.WriteByte('"')
			i++
			for i < len(runes) {
				c := runes[i]
				if c == '\\' && i+1 < len(runes) {
					// Preserve escape pairs; \' needs no escape in JSON.
					next := runes[i+1]
					if next == '\'' {
						out.WriteRune('\'')
					} else {
						out.WriteRune(c)
						out.WriteRune(next)
					}
					i += 2
					continue
				}
				if c == '\'' {
					i++
					break
				}
				if c == '"' {
					out.WriteString(`\"`)
					i++
					continue
				}
				out.WriteRune(c)
				i++
			}
			out.WriteByte('"')

		case r == '"':
			// Already-quoted string: copy through verbatim.
			out.WriteRune(r)
			i++
			for i < len(runes) {
				c := runes[i]
				out.WriteRune(c)
				i++
				if c == '\\' && i < len(runes) {
					out.WriteRune(runes[i])
					i++
					continue
				}
				if c == '"' {
					break
				}
			}

		case matchWord(runes, i, "True"):
			out.WriteString("true")
			i += 4
		case matchWord(runes, i, "False"):
			out.WriteString("false")
			i += 5
		case matchWord(runes, i, "None"):
			out.WriteString("null")
			i += 4

		default:
			out.WriteRune(r)
			i++
		}
	}

	return out.String()
}

// matchWord reports whether word starts at position i and is not part of a
// longer identifier.
func matchWord(runes []rune, i int, word string) bool {
	w := []rune(word)
	if i+len(w) > len(runes) {
		return false
	}
	for j, c := range w {
		if runes[i+j] != c {
			return false
		}
	}
	if i > 0 && isIdentRune(runes[i-1]) {
		return false
	}
	if i+len(w) < len(runes) && isIdentRune(runes[i+len(w)]) {
		return false
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
