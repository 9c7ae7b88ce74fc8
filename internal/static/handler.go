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

package static

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/httpmsg"
	"github.com/webserv/webserv/internal/mimetype"
)

// Handler serves static files for one route, per §4.5.
type Handler struct {
	Log *zap.Logger
}

// Serve resolves route's filesystem target for req and produces a
// response: a file body, a directory index/listing, or an error status.
// serverRoot is the server-level fallback root used when the route has
// none of its own (§4.5 step 1).
func (h *Handler) Serve(route *config.Route, serverRoot string, req *httpmsg.Request) *httpmsg.Response {
	root := route.Root
	if root == "" {
		root = serverRoot
	}
	remainder := strings.TrimPrefix(req.Path, route.Prefix)

	target, jailed, err := Resolve(root, remainder)
	if err != nil {
		h.Log.Warn("resolving static path", zap.String("path", req.Path), zap.Error(err))
		return errorResponse(404)
	}
	if !jailed {
		h.Log.Warn("jail violation", zap.String("path", req.Path), zap.String("resolved", target))
		return errorResponse(403)
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsPermission(err) {
			return errorResponse(403)
		}
		return errorResponse(404)
	}

	if info.IsDir() {
		return h.serveDirectory(route, target, req)
	}
	return h.serveFile(target, req.Method == httpmsg.MethodHead)
}

func (h *Handler) serveFile(path string, headOnly bool) *httpmsg.Response {
	info, err := os.Stat(path)
	if err != nil {
		return errorResponse(404)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return errorResponse(403)
		}
		return errorResponse(404)
	}

	resp := httpmsg.NewResponse(200)
	resp.SetHeader("content-type", mimetype.ForPath(path))
	resp.SetHeader("last-modified", info.ModTime().UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT"))
	if headOnly {
		resp.SetHeader("content-length", strconv.Itoa(len(data)))
	} else {
		resp.SetBody(data)
	}
	return resp
}

func (h *Handler) serveDirectory(route *config.Route, dirPath string, req *httpmsg.Request) *httpmsg.Response {
	for _, name := range route.Index {
		candidate := joinPath(dirPath, name)
		info, err := os.Stat(candidate)
		if err == nil && info.Mode().IsRegular() {
			return h.serveFile(candidate, req.Method == httpmsg.MethodHead)
		}
	}
	if route.Autoindex {
		return h.autoindex(dirPath, req.Path)
	}
	return errorResponse(403)
}

func errorResponse(status int) *httpmsg.Response {
	resp := httpmsg.NewResponse(status)
	body := []byte("<html><body><h1>" + strconv.Itoa(status) + " " + httpmsg.ReasonPhrase(status) + "</h1></body></html>")
	resp.SetHeader("content-type", "text/html")
	resp.SetBody(body)
	return resp
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
