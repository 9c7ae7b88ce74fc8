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
	"github.com/stretchr/testify/require"
)

// TestChunkedDecodeConcatenatesDataSegments is §8's chunked property: the
// decoded body equals the concatenation of the chunks' data segments,
// independent of how the sender split them up.
func TestChunkedDecodeConcatenatesDataSegments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single chunk",
			raw:  "5\r\nhello\r\n0\r\n\r\n",
			want: "hello",
		},
		{
			name: "multiple small chunks reassemble regardless of split",
			raw:  "3\r\nfoo\r\n3\r\nbar\r\n0\r\n\r\n",
			want: "foobar",
		},
		{
			name: "chunk extension after semicolon is ignored",
			raw:  "5;ignore=me\r\nhello\r\n0\r\n\r\n",
			want: "hello",
		},
		{
			name: "empty body",
			raw:  "0\r\n\r\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := decodeChunked([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestChunkedDecodeMalformedFraming(t *testing.T) {
	_, err := decodeChunked([]byte("not-hex\r\ndata\r\n0\r\n\r\n"))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestChunkedCompleteDetectsTerminatingZeroChunk(t *testing.T) {
	complete, tooLarge := chunkedComplete([]byte("5\r\nhello\r\n"), 0)
	assert.False(t, complete)
	assert.False(t, tooLarge)

	complete, tooLarge = chunkedComplete([]byte("5\r\nhello\r\n0\r\n\r\n"), 0)
	assert.True(t, complete)
	assert.False(t, tooLarge)
}

// TestChunkedCapEnforcedIncrementally is the SPEC_FULL supplemented
// feature: a chunked body exceeding client_max_body_size is rejected as
// soon as the cap is crossed, not after buffering the whole body.
func TestChunkedCapEnforcedIncrementally(t *testing.T) {
	raw := "a\r\n0123456789\r\n0\r\n\r\n" // 10 data bytes
	complete, tooLarge := chunkedComplete([]byte(raw), 5)
	assert.False(t, complete)
	assert.True(t, tooLarge)
}

func TestChunkedRequestEndToEnd(t *testing.T) {
	raw := "POST /up HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
		"4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n"
	ok, err := Complete([]byte(raw), 0)
	require.NoError(t, err)
	require.True(t, ok)

	req, _, err := Parse([]byte(raw), 0)
	require.NoError(t, err)
	assert.Equal(t, "Wikipedia", string(req.Body))
}
