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

// Package reactor wraps a kernel readiness primitive behind the interface
// §4.1 describes: register fds for readable/writable interest, wait once
// per loop iteration, and get back a bounded batch of readiness events.
package reactor

import "time"

// Event reports that fd is readable and/or writable without blocking.
type Event struct {
	Fd       int
	Readable bool
	Writable bool
}

// MaxEvents bounds the batch size per wait call (§4.1: "64 is sufficient").
const MaxEvents = 64

// Reactor is the readiness multiplexer interface. Implementations wrap a
// specific kernel primitive (epoll on Linux).
type Reactor interface {
	// AddListener registers fd with readable-only, level-triggered interest.
	AddListener(fd int) error
	// AddClient registers fd with readable+writable, edge-triggered interest.
	AddClient(fd int) error
	// Remove deregisters fd. Must be called before closing fd.
	Remove(fd int) error
	// Wait blocks up to timeout for events, returning at most MaxEvents.
	Wait(timeout time.Duration) ([]Event, error)
	// Close releases the underlying kernel resource.
	Close() error
}
