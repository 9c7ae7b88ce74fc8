// Copyright 2024 The Webserv Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpmsg

import "strings"

// urlDecode percent-decodes s per §4.3: "%HH" becomes a byte, "+" becomes
// a space. Malformed escapes are passed through literally rather than
// erroring, since query strings are best-effort by nature here.
func urlDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(s) {
				if hi, ok := hexVal(s[i+1]); ok {
					if lo, ok2 := hexVal(s[i+2]); ok2 {
						b.WriteByte(hi<<4 | lo)
						i += 2
						continue
					}
				}
			}
			b.WriteByte('%')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// urlEncode is the inverse of urlDecode for printable-ASCII input,
// used by §8's round-trip property test. Space encodes as '+'.
func urlEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c):
			b.WriteByte(c)
		default:
			const hex = "0123456789ABCDEF"
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xF])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.' || c == '~'
}

// parseQuery splits a raw query string on '&' and each pair at the first
// '=', percent-decoding both sides (§4.3).
func parseQuery(raw string) map[string]string {
	q := make(map[string]string)
	if raw == "" {
		return q
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		if i := strings.IndexByte(pair, '='); i >= 0 {
			q[urlDecode(pair[:i])] = urlDecode(pair[i+1:])
		} else {
			q[urlDecode(pair)] = ""
		}
	}
	return q
}

// parseCookies splits the Cookie header on ';', each piece trimmed and
// split at the first '=' (§4.3).
func parseCookies(header string) map[string]string {
	c := make(map[string]string)
	if header == "" {
		return c
	}
	for _, piece := range strings.Split(header, ";") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if i := strings.IndexByte(piece, '='); i >= 0 {
			c[strings.TrimSpace(piece[:i])] = strings.TrimSpace(piece[i+1:])
		} else {
			c[piece] = ""
		}
	}
	return c
}
