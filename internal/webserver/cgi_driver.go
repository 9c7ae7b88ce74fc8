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
	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/cgi"
	"github.com/webserv/webserv/internal/httpmsg"
	"github.com/webserv/webserv/internal/reactor"
)

// driveCGI handles a readiness event for one of a CGI Connection's three
// pipes (§4.6). Once both stdout and stderr have reached EOF, the
// connection is torn down and its response is injected into the
// originating client's write buffer, if that client is still connected.
func (s *Server) driveCGI(ep *cgiEndpoint, ev reactor.Event) {
	c := ep.c

	switch ep.kind {
	case cgiStdin:
		if ev.Writable {
			if err := c.WriteStdin(); err != nil {
				s.log.Debug("cgi stdin write", zap.Error(err))
			}
			if c.StdinDone {
				_ = s.reactor.Remove(c.StdinFd())
				delete(s.cgiPipes, c.StdinFd())
			}
		}
	case cgiStdout:
		if ev.Readable {
			if err := c.ReadStdout(); err != nil {
				s.log.Debug("cgi stdout read", zap.Error(err))
			}
		}
	case cgiStderr:
		if ev.Readable {
			if err := c.ReadStderr(); err != nil {
				s.log.Debug("cgi stderr read", zap.Error(err))
			}
		}
	}

	if !c.Complete() {
		return
	}

	s.finishCGI(c)
}

// finishCGI deregisters a completed CGI connection's pipes, reaps the
// child, builds the response, and hands it to the originating client if
// that client hasn't since disconnected (§9: a vanished client silently
// drops the response, but the CGI fds are still fully torn down).
func (s *Server) finishCGI(c *cgi.Conn) {
	for _, fd := range []int{c.StdinFd(), c.StdoutFdNo(), c.StderrFdNo()} {
		if _, ok := s.cgiPipes[fd]; ok {
			_ = s.reactor.Remove(fd)
			delete(s.cgiPipes, fd)
		}
	}
	c.Reap()

	client, ok := s.clients[c.ClientFd]
	if !ok {
		return
	}

	var resp *httpmsg.Response
	if c.StderrNonEmpty() {
		s.log.Warn("cgi script wrote to stderr", zap.Int("client_fd", c.ClientFd), zap.ByteString("stderr", c.ErrorBuf))
		resp = httpmsg.NewResponse(500)
		resp.SetHeader("content-type", "text/html")
		resp.SetBody([]byte("<html><body><h1>500 Internal Server Error</h1></body></html>"))
	} else {
		resp = cgi.ParseOutput(c.OutputBuf)
	}

	client.enqueue(s.finalize(c.CookieHeader, resp))
}
