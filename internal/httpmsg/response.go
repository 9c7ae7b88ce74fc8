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
	"fmt"
	"strconv"
	"time"
)

// Response is the Response Builder of §4.7: status, a lowercased header
// map, and a body. Header order in ToBytes is not meaningful (the spec
// notes headers live in an unordered map); Set-Cookie is a single value,
// a known limitation carried from the spec (§4.7, §9).
type Response struct {
	Version    string
	Status     int
	Reason     string
	Headers    map[string]string
	Body       []byte
	SetCookie  string
}

// NewResponse builds a response with the teacher-style defaults: a
// Server banner and a Date header, both of which callers may overwrite
// with SetHeader. Content-Length is added by SetBody.
func NewResponse(status int) *Response {
	r := &Response{
		Version: "HTTP/1.1",
		Status:  status,
		Reason:  ReasonPhrase(status),
		Headers: map[string]string{
			"server": "webserv/1.0",
			"date":   time.Now().UTC().Format(http1Date),
		},
	}
	return r
}

const http1Date = "Mon, 02 Jan 2006 15:04:05 GMT"

// SetBody sets the response body and updates Content-Length.
func (r *Response) SetBody(body []byte) {
	r.Body = body
	r.Headers["content-length"] = strconv.Itoa(len(body))
}

// SetHeader sets a header, lowercasing its name.
func (r *Response) SetHeader(name, value string) {
	r.Headers[lowerASCII(name)] = value
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 32
		}
	}
	return string(b)
}

// ToBytes serializes the response per §4.7's wire format.
func (r *Response) ToBytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d %s\r\n", r.Version, r.Status, r.Reason)
	for name, value := range r.Headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
	}
	if r.SetCookie != "" {
		fmt.Fprintf(&buf, "Set-Cookie: %s\r\n", r.SetCookie)
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)
	return buf.Bytes()
}

// ReasonPhrase returns the standard reason phrase for code, or "Unknown
// Status" for codes this server doesn't otherwise name.
func ReasonPhrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Unknown Status"
}

var reasonPhrases = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	307: "Temporary Redirect",
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	413: "Payload Too Large",
	500: "Internal Server Error",
}
