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
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/webserv/webserv/internal/httpmsg"
	"github.com/webserv/webserv/internal/reactor"
)

// driveClient handles a readiness event for a client fd: a readable bit
// drains the socket and may trigger a parse+dispatch, a writable bit
// drains the pending write buffer (§4.9).
func (s *Server) driveClient(c *conn, ev reactor.Event) {
	if ev.Readable {
		if !s.readClient(c) {
			return // connection was closed
		}
	}
	if ev.Writable && len(c.writeBuf) > 0 {
		s.writeClient(c)
	}
}

// readClient drains c's socket to EAGAIN (edge-triggered registration
// demands this, §4.1), then parses and dispatches as many complete,
// pipelined requests as the accumulated buffer now contains. Returns
// false if the connection was closed (peer close or fatal read error).
func (s *Server) readClient(c *conn) bool {
	buf := make([]byte, readChunkSize)
	for {
		n, err := unix.Read(c.fd, buf)
		if err != nil {
			if err == unix.EAGAIN {
				break
			}
			s.log.Debug("read error, closing connection", zap.Int("fd", c.fd), zap.Error(err))
			s.closeClient(c.fd)
			return false
		}
		if n == 0 {
			// Peer closed (§4.9: "A zero-byte read means peer close").
			s.closeClient(c.fd)
			return false
		}
		c.readBuf = append(c.readBuf, buf[:n]...)
		c.lastActivity = time.Now()
	}

	maxBody := s.maxBodyFor(c.serverIndex)
	for {
		ok, err := httpmsg.Complete(c.readBuf, maxBody)
		if err != nil {
			if errors.Is(err, httpmsg.ErrBodyTooLarge) {
				c.enqueue(s.errorBytes(413))
				c.readBuf = nil
			}
			return true
		}
		if !ok {
			return true
		}

		req, consumed, perr := httpmsg.Parse(c.readBuf, maxBody)
		if perr != nil {
			c.enqueue(s.errorBytes(400))
			c.readBuf = nil
			return true
		}
		c.readBuf = c.readBuf[consumed:]
		c.phase = phaseProcessing
		s.dispatch(c, req)
	}
}

// writeClient attempts a single write of the pending response buffer and
// consumes the bytes actually written (§4.9). Once drained, the
// connection becomes KeepAlive.
func (s *Server) writeClient(c *conn) {
	n, err := unix.Write(c.fd, c.writeBuf)
	if err != nil {
		if err == unix.EAGAIN {
			return
		}
		s.log.Debug("write error, closing connection", zap.Int("fd", c.fd), zap.Error(err))
		s.closeClient(c.fd)
		return
	}
	c.writeBuf = c.writeBuf[n:]
	if len(c.writeBuf) == 0 {
		c.phase = phaseKeepAlive
	}
}

func (s *Server) maxBodyFor(serverIndex int) int64 {
	if serverIndex < 0 || serverIndex >= len(s.cfg.Servers) {
		return 0
	}
	return s.cfg.Servers[serverIndex].ClientMaxBodySize
}

func (s *Server) errorBytes(status int) []byte {
	resp := httpmsg.NewResponse(status)
	body := []byte("<html><body><h1>" + strconv.Itoa(status) + " " + httpmsg.ReasonPhrase(status) + "</h1></body></html>")
	resp.SetHeader("content-type", "text/html")
	resp.SetBody(body)
	return resp.ToBytes()
}
