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
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/cgi"
	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/httpmsg"
	"github.com/webserv/webserv/internal/router"
	"github.com/webserv/webserv/internal/static"
)

// dispatch is the route-resolution and handler-dispatch pipeline of §4.4
// and §4.9 step 2. It either enqueues a response onto c's write buffer
// immediately (static/redirect/error responses) or spawns a CGI
// connection that will inject the response asynchronously later.
func (s *Server) dispatch(c *conn, req *httpmsg.Request) {
	srv := s.cfg.Servers[c.serverIndex]

	route, outcome := router.Resolve(srv, req.Path, req.Method.String())
	switch outcome {
	case router.NoMatch:
		s.respondWithStatus(c, srv, req, 404)
		return
	case router.Forbidden:
		s.respondWithStatus(c, srv, req, 403)
		return
	case router.MethodNotAllowed:
		s.respondWithStatus(c, srv, req, 405)
		return
	}

	if route.Redirect != nil {
		resp := httpmsg.NewResponse(route.Redirect.Code)
		resp.SetHeader("location", route.Redirect.URL)
		resp.SetHeader("content-type", "text/html")
		resp.SetBody([]byte(`<html><body>Redirecting to <a href="` + route.Redirect.URL + `">` + route.Redirect.URL + `</a></body></html>`))
		c.enqueue(s.finalize(req.Header("cookie"), resp))
		return
	}

	if route.IsCGI(req.Path) {
		s.dispatchCGI(c, srv, route, req)
		return
	}

	var resp *httpmsg.Response
	switch req.Method {
	case httpmsg.MethodPost:
		if route.UploadStore != "" {
			resp = s.static.HandleUpload(route, req)
		} else {
			resp = s.static.Serve(route, serverRoot(srv), req)
		}
	case httpmsg.MethodDelete:
		resp = s.static.HandleDelete(route, serverRoot(srv), req)
	default:
		resp = s.static.Serve(route, serverRoot(srv), req)
	}

	c.enqueue(s.finalize(req.Header("cookie"), resp))
}

// respondWithStatus applies the error-page fallback chain: a configured,
// readable, non-directory error page for this status wins; otherwise a
// minimal built-in status-code body (§4.5/§7).
func (s *Server) respondWithStatus(c *conn, srv *config.Server, req *httpmsg.Request, status int) {
	if page, ok := srv.ErrorPages[status]; ok {
		if info, err := os.Stat(page); err == nil && info.Mode().IsRegular() {
			if data, err := os.ReadFile(page); err == nil {
				resp := httpmsg.NewResponse(status)
				resp.SetHeader("content-type", "text/html")
				resp.SetBody(data)
				c.enqueue(s.finalize(req.Header("cookie"), resp))
				return
			}
		}
	}
	c.enqueue(s.errorBytes(status))
}

func serverRoot(srv *config.Server) string {
	// The spec's "server-level root" fallback (§4.5 step 1) isn't its own
	// directive in §6; routes are expected to carry their own root.
	// Returning "." means a route with no root of its own resolves
	// relative to the process's working directory, which static.Resolve
	// treats as any other relative root.
	return "."
}

// dispatchCGI spawns the CGI subprocess for route and registers its
// three pipe endpoints with the reactor (§4.6). No response is enqueued
// yet; driveCGI injects it into c's write buffer on completion.
func (s *Server) dispatchCGI(c *conn, srv *config.Server, route *config.Route, req *httpmsg.Request) {
	remainder := strings.TrimPrefix(req.Path, route.Prefix)
	root := route.Root
	if root == "" {
		root = serverRoot(srv)
	}
	scriptPath, jailed, err := static.Resolve(root, remainder)
	if err != nil || !jailed {
		c.enqueue(s.errorBytes(500))
		return
	}
	scriptPath = filepath.Clean(scriptPath)

	conn, err := cgi.Spawn(s.log, route.CGIPass, scriptPath, req, c.remoteAddr, c.fd)
	if err != nil {
		s.log.Warn("cgi spawn failed", zap.String("script", scriptPath), zap.Error(err))
		c.enqueue(s.errorBytes(500))
		return
	}
	conn.CookieHeader = req.Header("cookie")

	stdinFd := conn.StdinFd()
	s.cgiPipes[stdinFd] = &cgiEndpoint{c: conn, kind: cgiStdin}
	s.cgiPipes[conn.StdoutFdNo()] = &cgiEndpoint{c: conn, kind: cgiStdout}
	s.cgiPipes[conn.StderrFdNo()] = &cgiEndpoint{c: conn, kind: cgiStderr}

	for _, fd := range []int{stdinFd, conn.StdoutFdNo(), conn.StderrFdNo()} {
		if err := s.reactor.AddClient(fd); err != nil {
			s.log.Warn("registering cgi pipe", zap.Int("fd", fd), zap.Error(err))
		}
	}

	// A body-less request (GET, or POST with an empty body) writes
	// nothing and closes stdin synchronously; deregister it right away
	// so the reactor and the pipe table never reference the closed fd.
	if err := conn.WriteStdin(); err != nil {
		s.log.Debug("cgi stdin", zap.Error(err))
	}
	if conn.StdinDone {
		_ = s.reactor.Remove(stdinFd)
		delete(s.cgiPipes, stdinFd)
	}
}

// finalize applies the session cookie policy of §4.8 and serializes resp.
func (s *Server) finalize(cookieHeader string, resp *httpmsg.Response) []byte {
	id, isNew := s.sess.GetOrCreate(cookieHeader)
	if isNew {
		resp.SetCookie = fmt.Sprintf("SESSIONID=%s; Max-Age=3600; Path=/", id)
	}
	return resp.ToBytes()
}
