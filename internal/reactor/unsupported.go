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

//go:build !linux

package reactor

import "errors"

// New is unimplemented outside Linux: the spec's readiness multiplexer is
// defined in terms of a single kernel primitive, and epoll is the one the
// teacher's own OS-specific listener code (listen_linux.go) targets.
func New() (Reactor, error) {
	return nil, errors.New("reactor: no readiness multiplexer implementation for this platform")
}
