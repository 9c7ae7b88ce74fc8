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
	"strings"
)

var crlf = []byte("\r\n")
var crlfcrlf = []byte("\r\n\r\n")

// Complete implements the completeness test of §4.3: given the bytes
// accumulated so far on a connection and the server's body size cap,
// reports whether a full request is present. ok=false with err=nil means
// "keep reading"; a non-nil err is ErrBodyTooLarge, mapped by the server
// loop to a 413 regardless of handler (§8 scenario 6).
func Complete(buf []byte, maxBody int64) (ok bool, err error) {
	headerEnd := bytes.Index(buf, crlfcrlf)
	if headerEnd < 0 {
		return false, nil
	}
	headers := buf[:headerEnd]
	rest := buf[headerEnd+4:]

	if cl, ok := findHeader(headers, "content-length"); ok {
		n, convErr := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if convErr != nil || n < 0 {
			return true, nil // malformed Content-Length -> let Parse raise ErrInvalidHeader
		}
		if maxBody > 0 && n > maxBody {
			return false, ErrBodyTooLarge
		}
		return int64(len(rest)) >= n, nil
	}

	if te, ok := findHeader(headers, "transfer-encoding"); ok && containsToken(te, "chunked") {
		complete, tooLarge := chunkedComplete(rest, maxBody)
		if tooLarge {
			return false, ErrBodyTooLarge
		}
		return complete, nil
	}

	return true, nil
}

// findHeader does a case-insensitive scan of a raw, unparsed header block
// for one header's value. Used only by Complete, which runs before the
// full header map exists.
func findHeader(headerBlock []byte, name string) (string, bool) {
	lines := strings.Split(string(headerBlock), "\r\n")
	for _, line := range lines {
		i := strings.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line[:i]), name) {
			return strings.TrimSpace(line[i+1:]), true
		}
	}
	return "", false
}

func containsToken(headerValue, token string) bool {
	for _, part := range strings.Split(headerValue, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}

// Parse parses a single complete request out of buf (as already verified
// by Complete) and returns it along with the number of bytes consumed,
// so the caller can slide its read buffer for a pipelined next request.
func Parse(buf []byte, maxBody int64) (*Request, int, error) {
	headerEnd := bytes.Index(buf, crlfcrlf)
	if headerEnd < 0 {
		return nil, 0, ErrIncompleteRequest
	}

	lineEnd := bytes.Index(buf[:headerEnd], crlf)
	var requestLine []byte
	var headerLines []byte
	if lineEnd < 0 {
		requestLine = buf[:headerEnd]
	} else {
		requestLine = buf[:lineEnd]
		headerLines = buf[lineEnd+2 : headerEnd]
	}

	method, target, version, err := parseRequestLine(string(requestLine))
	if err != nil {
		return nil, 0, err
	}

	headers, err := parseHeaders(headerLines)
	if err != nil {
		return nil, 0, err
	}

	req := &Request{
		Method:  method,
		Target:  target,
		Version: version,
		Headers: headers,
	}
	if i := strings.IndexByte(target, '?'); i >= 0 {
		req.Path = target[:i]
		req.RawQuery = target[i+1:]
	} else {
		req.Path = target
	}
	req.Query = parseQuery(req.RawQuery)
	req.Cookies = parseCookies(headers["cookie"])

	consumed := headerEnd + 4
	rest := buf[consumed:]

	if cl, ok := headers["content-length"]; ok {
		n, convErr := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if convErr != nil || n < 0 {
			return nil, 0, ErrInvalidHeader
		}
		if int64(len(rest)) < n {
			return nil, 0, ErrIncompleteRequest
		}
		req.Body = append([]byte(nil), rest[:n]...)
		consumed += int(n)
		return req, consumed, nil
	}

	if te, ok := headers["transfer-encoding"]; ok && containsToken(te, "chunked") {
		body, decErr := decodeChunked(rest)
		if decErr != nil {
			return nil, 0, decErr
		}
		req.Body = body
		// consumed tracks only through the bytes actually used. Since
		// decodeChunked doesn't report a cursor, chunkedConsumed walks the
		// same framing a second time to find where the chunked body (up to
		// and including the trailer CRLF) ends.
		n, cerr := chunkedConsumed(rest)
		if cerr != nil {
			return nil, 0, cerr
		}
		consumed += n
		return req, consumed, nil
	}

	return req, consumed, nil
}

// chunkedConsumed returns how many bytes of data the chunked framing
// occupies, through and including the terminating trailer CRLF.
func chunkedConsumed(data []byte) (int, error) {
	pos := 0
	for {
		lineEnd := bytes.Index(data[pos:], crlf)
		if lineEnd < 0 {
			return 0, ErrInvalidHeader
		}
		sizeLine := data[pos : pos+lineEnd]
		if i := bytes.IndexByte(sizeLine, ';'); i >= 0 {
			sizeLine = sizeLine[:i]
		}
		size, err := strconv.ParseInt(string(bytes.TrimSpace(sizeLine)), 16, 64)
		if err != nil || size < 0 {
			return 0, ErrInvalidHeader
		}
		pos += lineEnd + 2
		if size == 0 {
			for {
				end := bytes.Index(data[pos:], crlf)
				if end < 0 {
					return 0, ErrInvalidHeader
				}
				pos += end + 2
				if end == 0 {
					return pos, nil
				}
			}
		}
		pos += int(size) + 2
	}
}

func parseRequestLine(line string) (Method, string, string, error) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return MethodInvalid, "", "", ErrInvalidRequestLine
	}
	method, ok := methodNames[parts[0]]
	if !ok {
		return MethodInvalid, "", "", ErrInvalidMethod
	}
	version := parts[2]
	if !strings.HasPrefix(version, "HTTP/") {
		return MethodInvalid, "", "", ErrInvalidVersion
	}
	major, minor, ok := splitVersion(version[len("HTTP/"):])
	if !ok || major == "" || minor == "" {
		return MethodInvalid, "", "", ErrInvalidVersion
	}
	return method, parts[1], version, nil
}

func splitVersion(v string) (string, string, bool) {
	i := strings.IndexByte(v, '.')
	if i < 0 {
		return "", "", false
	}
	return v[:i], v[i+1:], true
}

// ParseHeaderBlock parses a raw "Name: Value\r\n..." block, exported for
// the idempotence property in §8 (serialize a response, parse its header
// block, recover the same map modulo ordering).
func ParseHeaderBlock(block []byte) (map[string]string, error) {
	return parseHeaders(block)
}

func parseHeaders(block []byte) (map[string]string, error) {
	headers := make(map[string]string)
	if len(block) == 0 {
		return headers, nil
	}
	for _, line := range strings.Split(string(block), "\r\n") {
		if line == "" {
			continue
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			return nil, ErrInvalidHeader
		}
		name := strings.ToLower(strings.TrimSpace(line[:i]))
		value := strings.TrimSpace(line[i+1:])
		if name == "" {
			return nil, ErrInvalidHeader
		}
		headers[name] = value
	}
	return headers, nil
}
