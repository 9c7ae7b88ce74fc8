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

package cgi

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/webserv/webserv/internal/httpmsg"
)

// ParseOutput turns a CGI script's combined stdout into an HTTP response,
// per §4.6: split at the first CRLF CRLF, a Status header (if present)
// supplies the status code, all other headers are forwarded, and the
// remainder is the body. Absence of the separator is tolerated (status
// 200, no headers, body = entire output).
func ParseOutput(output []byte) *httpmsg.Response {
	sep := bytes.Index(output, []byte("\r\n\r\n"))
	if sep < 0 {
		resp := httpmsg.NewResponse(200)
		resp.SetBody(output)
		return resp
	}

	headerBlock := output[:sep]
	body := output[sep+4:]

	status := 200
	headers, _ := httpmsg.ParseHeaderBlock(headerBlock)
	resp := httpmsg.NewResponse(200)
	for name, value := range headers {
		if name == "status" {
			if code, ok := leadingInt(value); ok {
				status = code
			}
			continue
		}
		resp.SetHeader(name, value)
	}
	resp.Status = status
	resp.Reason = httpmsg.ReasonPhrase(status)
	resp.SetBody(body)
	return resp
}

// leadingInt parses the leading numeric token of a Status header value
// such as "201 Created".
func leadingInt(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
