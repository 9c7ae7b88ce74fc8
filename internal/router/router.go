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

// Package router implements the longest-prefix location match and method
// gating of §4.4.
package router

import (
	"strings"

	"github.com/webserv/webserv/internal/config"
)

// Outcome is the result of resolving a request path + method against a
// server's routes.
type Outcome int

const (
	// Matched means route is set and the method is allowed.
	Matched Outcome = iota
	// NoMatch means no location's prefix matched the path: 404.
	NoMatch
	// Forbidden means the matched route has an empty allowed-method set: 403.
	Forbidden
	// MethodNotAllowed means the matched route exists but doesn't permit
	// this method: 405.
	MethodNotAllowed
)

// Resolve performs longest-prefix matching of path against srv's routes
// and then applies method gating (§4.4).
func Resolve(srv *config.Server, path, method string) (*config.Route, Outcome) {
	var best *config.Route
	bestLen := -1
	for _, route := range srv.Routes {
		if strings.HasPrefix(path, route.Prefix) && len(route.Prefix) > bestLen {
			best = route
			bestLen = len(route.Prefix)
		}
	}
	if best == nil {
		return nil, NoMatch
	}
	if len(best.AllowedMethods) == 0 {
		return best, Forbidden
	}
	if !best.AllowedMethods[method] {
		return best, MethodNotAllowed
	}
	return best, Matched
}
