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
	"os"
	"strings"

	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/httpmsg"
)

// HandleDelete implements DELETE per §4.5: permitted only when the
// resolved target lies under an upload directory (either the route's
// upload-store or any resolved path containing "/uploads/").
func (h *Handler) HandleDelete(route *config.Route, serverRoot string, req *httpmsg.Request) *httpmsg.Response {
	root := route.Root
	if root == "" {
		root = serverRoot
	}
	remainder := strings.TrimPrefix(req.Path, route.Prefix)

	target, jailed, err := Resolve(root, remainder)
	if err != nil {
		return errorResponse(404)
	}
	if !jailed {
		return errorResponse(403)
	}

	if !underUploadDir(target, route) {
		return errorResponse(403)
	}

	info, err := os.Stat(target)
	if err != nil {
		return errorResponse(404)
	}
	if info.IsDir() {
		return errorResponse(403)
	}

	if err := os.Remove(target); err != nil {
		if os.IsPermission(err) {
			return errorResponse(403)
		}
		return errorResponse(404)
	}

	resp := httpmsg.NewResponse(200)
	resp.SetHeader("content-type", "text/html")
	resp.SetBody([]byte("<html><body><h1>Deleted</h1></body></html>"))
	return resp
}

func underUploadDir(target string, route *config.Route) bool {
	if route.UploadStore != "" {
		if store, _, err := Resolve(route.UploadStore, ""); err == nil {
			if strings.HasPrefix(target, store) {
				return true
			}
		}
	}
	return strings.Contains(target, "/uploads/")
}
