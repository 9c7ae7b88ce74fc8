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

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webserv/webserv/internal/config"
)

func testServer() *config.Server {
	return &config.Server{
		Routes: []*config.Route{
			{Prefix: "/", AllowedMethods: map[string]bool{"GET": true}},
			{Prefix: "/static", AllowedMethods: map[string]bool{"GET": true, "HEAD": true}},
			{Prefix: "/static/uploads", AllowedMethods: map[string]bool{"GET": true, "POST": true, "DELETE": true}},
			{Prefix: "/forbidden"}, // empty allowed-method set
		},
	}
}

func TestResolveLongestPrefixWins(t *testing.T) {
	srv := testServer()

	route, outcome := Resolve(srv, "/static/uploads/file.txt", "GET")
	require.Equal(t, Matched, outcome)
	assert.Equal(t, "/static/uploads", route.Prefix)

	route, outcome = Resolve(srv, "/static/index.html", "GET")
	require.Equal(t, Matched, outcome)
	assert.Equal(t, "/static", route.Prefix)

	route, outcome = Resolve(srv, "/anything/else", "GET")
	require.Equal(t, Matched, outcome)
	assert.Equal(t, "/", route.Prefix)
}

func TestResolveNoMatch(t *testing.T) {
	srv := &config.Server{Routes: []*config.Route{
		{Prefix: "/only", AllowedMethods: map[string]bool{"GET": true}},
	}}
	_, outcome := Resolve(srv, "/other", "GET")
	assert.Equal(t, NoMatch, outcome)
}

func TestResolveEmptyMethodSetIsForbidden(t *testing.T) {
	srv := testServer()
	route, outcome := Resolve(srv, "/forbidden/x", "GET")
	require.Equal(t, Forbidden, outcome)
	assert.Equal(t, "/forbidden", route.Prefix)
}

func TestResolveMethodNotAllowed(t *testing.T) {
	srv := testServer()
	route, outcome := Resolve(srv, "/static/x", "DELETE")
	require.Equal(t, MethodNotAllowed, outcome)
	assert.Equal(t, "/static", route.Prefix)
}

func TestResolveRootPrefixMatchesAnything(t *testing.T) {
	srv := &config.Server{Routes: []*config.Route{
		{Prefix: "/", AllowedMethods: map[string]bool{"GET": true}},
	}}
	route, outcome := Resolve(srv, "/does/not/exist/anywhere", "GET")
	require.Equal(t, Matched, outcome)
	assert.Equal(t, "/", route.Prefix)
}
