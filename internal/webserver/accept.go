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

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// handleListenerReadable accepts every pending connection on ln (§4.2:
// "accept in a loop until EAGAIN"), registering each as a client.
func (s *Server) handleListenerReadable(ln *Listener) {
	for {
		clientFd, sa, err := unix.Accept4(ln.Fd, unix.SOCK_NONBLOCK)
		if err != nil {
			if err == unix.EAGAIN {
				return
			}
			s.log.Warn("accept failed", zap.Int("listener_fd", ln.Fd), zap.Error(err))
			return
		}

		if err := s.reactor.AddClient(clientFd); err != nil {
			s.log.Warn("registering client fd", zap.Int("fd", clientFd), zap.Error(err))
			unix.Close(clientFd)
			continue
		}

		s.clients[clientFd] = newConn(clientFd, ln.ServerIndex, remoteAddrString(sa))
	}
}

func remoteAddrString(sa unix.Sockaddr) string {
	if v4, ok := sa.(*unix.SockaddrInet4); ok {
		return fmt.Sprintf("%d.%d.%d.%d:%d", v4.Addr[0], v4.Addr[1], v4.Addr[2], v4.Addr[3], v4.Port)
	}
	return ""
}
