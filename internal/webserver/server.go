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

// Package webserver ties together the reactor, the listener set, the
// connection table, the router, and the static/CGI handlers into the
// Server Loop of §4.9.
package webserver

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/webserv/webserv/internal/cgi"
	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/reactor"
	"github.com/webserv/webserv/internal/session"
	"github.com/webserv/webserv/internal/static"
)

const (
	readChunkSize = 8192
	idleTimeout   = 30 * time.Second
	waitTimeout   = 1 * time.Second
)

// Server owns every fd this process touches: listeners, clients, and CGI
// pipe endpoints, all multiplexed through one Reactor (§2, §5). No fd
// belongs to more than one of these tables at once (§3 invariant).
type Server struct {
	log     *zap.Logger
	cfg     *config.Config
	reactor reactor.Reactor
	static  *static.Handler
	sess    *session.Store

	listeners map[int]*Listener    // fd -> listener
	clients   map[int]*conn        // fd -> client connection
	cgiPipes  map[int]*cgiEndpoint // fd -> which CGI connection (and which pipe) owns it
}

// cgiEndpoint identifies which of a CGI Connection's three pipes a given
// fd is, so the reactor's flat fd->event dispatch can route to the right
// sub-state-machine step (§4.6).
type cgiEndpoint struct {
	c    *cgi.Conn
	kind cgiPipeKind
}

type cgiPipeKind int

const (
	cgiStdin cgiPipeKind = iota
	cgiStdout
	cgiStderr
)

// New binds a listener for every (server, port) pair in cfg and wires up
// a fresh Reactor. Duplicate bind addresses were already rejected by
// config.Config.Validate at load time (§4.2).
func New(log *zap.Logger, cfg *config.Config) (*Server, error) {
	rx, err := reactor.New()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		log:       log,
		cfg:       cfg,
		reactor:   rx,
		static:    &static.Handler{Log: log},
		sess:      &session.Store{},
		listeners: make(map[int]*Listener),
		clients:   make(map[int]*conn),
		cgiPipes:  make(map[int]*cgiEndpoint),
	}

	for serverIndex, srv := range cfg.Servers {
		for _, port := range srv.Listen {
			ln, err := bindListener(port, serverIndex)
			if err != nil {
				s.closeAllListeners()
				return nil, fmt.Errorf("server: binding port %d: %w", port, err)
			}
			if err := rx.AddListener(ln.Fd); err != nil {
				unix.Close(ln.Fd)
				s.closeAllListeners()
				return nil, fmt.Errorf("server: registering listener: %w", err)
			}
			s.listeners[ln.Fd] = ln
			log.Info("listening", zap.Int("port", port), zap.String("server_name", srv.ServerName))
		}
	}

	return s, nil
}

func (s *Server) closeAllListeners() {
	for fd := range s.listeners {
		unix.Close(fd)
	}
}

// Run executes the Server Loop of §4.9 until rx.Wait returns a fatal
// error. Each iteration: one readiness wait, dispatch every event, then
// reap idle connections.
func (s *Server) Run() error {
	for {
		events, err := s.reactor.Wait(waitTimeout)
		if err != nil {
			return fmt.Errorf("server: reactor wait: %w", err)
		}

		for _, ev := range events {
			s.dispatchEvent(ev)
		}

		s.reapIdle()
	}
}

func (s *Server) dispatchEvent(ev reactor.Event) {
	defer func() {
		if r := recover(); r != nil {
			// §7: a panic in an event handler is caught at the loop
			// boundary; only the offending connection is closed.
			s.log.Error("recovered panic handling event", zap.Int("fd", ev.Fd), zap.Any("panic", r))
			s.closeClient(ev.Fd)
		}
	}()

	if ln, ok := s.listeners[ev.Fd]; ok {
		s.handleListenerReadable(ln)
		return
	}
	if ep, ok := s.cgiPipes[ev.Fd]; ok {
		s.driveCGI(ep, ev)
		return
	}
	if c, ok := s.clients[ev.Fd]; ok {
		s.driveClient(c, ev)
		return
	}
	// Stale event for an fd already torn down this iteration; ignore.
}

func (s *Server) reapIdle() {
	now := time.Now()
	var stale []int
	for fd, c := range s.clients {
		if now.Sub(c.lastActivity) > idleTimeout {
			stale = append(stale, fd)
		}
	}
	for _, fd := range stale {
		s.closeClient(fd)
	}
}

func (s *Server) closeClient(fd int) {
	if _, ok := s.clients[fd]; !ok {
		return
	}
	_ = s.reactor.Remove(fd)
	unix.Close(fd)
	delete(s.clients, fd)
}
