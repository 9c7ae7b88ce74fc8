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
	"bytes"
	"strconv"
)

// chunkedComplete scans a chunked body for its terminating zero-size
// chunk (SPEC_FULL open-question resolution #1: unlike the conservative
// fallback the base spec allows, this implementation actually looks for
// the terminator rather than declaring completeness at headers-end).
// It also enforces maxBody incrementally against decoded chunk data, so
// an oversized chunked upload is rejected as soon as the cap is crossed
// instead of after buffering the whole body (SPEC_FULL supplemented
// feature).
//
// Returns complete=true once the whole chunked body (through the final
// CRLF after the zero chunk) is present in data. tooLarge is set if the
// decoded content would exceed maxBody; maxBody <= 0 disables the check.
func chunkedComplete(data []byte, maxBody int64) (complete bool, tooLarge bool) {
	var decoded int64
	pos := 0
	for {
		lineEnd := bytes.Index(data[pos:], crlf)
		if lineEnd < 0 {
			return false, false
		}
		sizeLine := data[pos : pos+lineEnd]
		if i := bytes.IndexByte(sizeLine, ';'); i >= 0 {
			sizeLine = sizeLine[:i]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(sizeLine)), 16, 64)
		if err != nil || size < 0 {
			// Malformed framing; let the caller treat this as complete so
			// the parser can surface ErrInvalidHeader.
			return true, false
		}
		pos += lineEnd + 2

		if size == 0 {
			// Trailer section: zero or more header lines, then CRLF.
			for {
				end := bytes.Index(data[pos:], crlf)
				if end < 0 {
					return false, false
				}
				if end == 0 {
					pos += 2
					return true, false
				}
				pos += end + 2
			}
		}

		decoded += size
		if maxBody > 0 && decoded > maxBody {
			return false, true
		}

		if pos+int(size)+2 > len(data) {
			return false, false
		}
		pos += int(size) + 2
	}
}

// decodeChunked fully decodes a complete chunked body (as verified by
// chunkedComplete) into its concatenated data segments.
func decodeChunked(data []byte) ([]byte, error) {
	var body []byte
	pos := 0
	for {
		lineEnd := bytes.Index(data[pos:], crlf)
		if lineEnd < 0 {
			return nil, ErrInvalidHeader
		}
		sizeLine := data[pos : pos+lineEnd]
		if i := bytes.IndexByte(sizeLine, ';'); i >= 0 {
			sizeLine = sizeLine[:i]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(sizeLine)), 16, 64)
		if err != nil || size < 0 {
			return nil, ErrInvalidHeader
		}
		pos += lineEnd + 2

		if size == 0 {
			return body, nil
		}

		if pos+int(size)+2 > len(data) {
			return nil, ErrInvalidHeader
		}
		body = append(body, data[pos:pos+int(size)]...)
		pos += int(size) + 2
	}
}
