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

import "time"

// phase is a Client Connection's position in the lifecycle of §3.
type phase int

const (
	phaseReading phase = iota
	phaseProcessing
	phaseWriting
	phaseKeepAlive
)

// conn is the Client Connection record of §3: exclusively owned by the
// Server's connection table.
type conn struct {
	fd           int
	serverIndex  int
	readBuf      []byte
	writeBuf     []byte
	lastActivity time.Time
	phase        phase
	remoteAddr   string
}

func newConn(fd, serverIndex int, remoteAddr string) *conn {
	return &conn{
		fd:           fd,
		serverIndex:  serverIndex,
		lastActivity: time.Now(),
		phase:        phaseReading,
		remoteAddr:   remoteAddr,
	}
}

// enqueue appends resp to the connection's write buffer and transitions
// it to Writing (§3: "A client in Writing has non-empty write buffer").
func (c *conn) enqueue(resp []byte) {
	c.writeBuf = append(c.writeBuf, resp...)
	if len(c.writeBuf) > 0 {
		c.phase = phaseWriting
	}
}
