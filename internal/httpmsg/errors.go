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

import "errors"

// Parse and completeness errors, per §4.3. The server loop maps
// ErrBodyTooLarge to a 413 response and any other of these (other than
// ErrIncompleteRequest, which just means "keep reading") to a 400 response.
var (
	ErrIncompleteRequest  = errors.New("httpmsg: incomplete request")
	ErrInvalidRequestLine = errors.New("httpmsg: invalid request line")
	ErrInvalidMethod      = errors.New("httpmsg: invalid method")
	ErrInvalidVersion     = errors.New("httpmsg: invalid version")
	ErrInvalidHeader      = errors.New("httpmsg: invalid header")
	ErrBodyTooLarge       = errors.New("httpmsg: body exceeds client_max_body_size")
)
