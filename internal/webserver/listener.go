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

//go:build linux

package webserver

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Listener is the Listener Set entry of §4.2: a non-blocking TCP
// listening socket bound to loopback, indexed by the server it belongs
// to. Immutable after bind.
type Listener struct {
	Fd          int
	Port        int
	ServerIndex int
}

// bindListener binds a non-blocking TCP socket to 127.0.0.1:port, raw
// via golang.org/x/sys/unix rather than net.Listen so the fd is never
// also registered with the Go runtime's own netpoller — it belongs
// exclusively to this process's reactor (§4.2, §5).
func bindListener(port, serverIndex int) (*Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	addr := &unix.SockaddrInet4{Port: port}
	addr.Addr = [4]byte{127, 0, 0, 1}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind 127.0.0.1:%d: %w", port, err)
	}

	if err := unix.Listen(fd, 128); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen: %w", err)
	}

	return &Listener{Fd: fd, Port: port, ServerIndex: serverIndex}, nil
}
