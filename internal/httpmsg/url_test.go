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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestURLRoundTrip is §8's round-trip property: url_decode(url_encode(s))
// == s for printable ASCII, with '+' decoding to space.
func TestURLRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		"hello world",
		"a+b=c",
		"weird!@#$%^&*()chars",
		"path/with/slashes",
		"100%done",
	}
	for _, s := range inputs {
		assert.Equal(t, s, urlDecode(urlEncode(s)), "round trip for %q", s)
	}
}

func TestURLDecodePlusIsSpace(t *testing.T) {
	assert.Equal(t, "a b", urlDecode("a+b"))
}

func TestURLDecodePercentEscape(t *testing.T) {
	assert.Equal(t, "a b", urlDecode("a%20b"))
	assert.Equal(t, "100%", urlDecode("100%25"))
}

func TestURLDecodeMalformedEscapePassedThrough(t *testing.T) {
	assert.Equal(t, "100%zz", urlDecode("100%zz"))
}

func TestParseQuerySplitsOnAmpAndEquals(t *testing.T) {
	q := parseQuery("a=1&b=2&flag")
	assert.Equal(t, "1", q["a"])
	assert.Equal(t, "2", q["b"])
	assert.Equal(t, "", q["flag"])
}

func TestParseCookiesSplitsOnSemicolon(t *testing.T) {
	c := parseCookies("SESSIONID=abc123; theme = dark ; empty=")
	assert.Equal(t, "abc123", c["SESSIONID"])
	assert.Equal(t, "dark", c["theme"])
	assert.Equal(t, "", c["empty"])
}

func TestParseCookiesEmptyHeader(t *testing.T) {
	c := parseCookies("")
	assert.Empty(t, c)
}
