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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteIsCGI(t *testing.T) {
	tests := []struct {
		name string
		r    Route
		path string
		want bool
	}{
		{
			name: "no interpreter configured",
			r:    Route{},
			path: "/cgi-bin/script.php",
			want: false,
		},
		{
			name: "interpreter with no trigger extension matches any path",
			r:    Route{CGIPass: "/usr/bin/php-cgi"},
			path: "/cgi-bin/anything",
			want: true,
		},
		{
			name: "trigger extension matches",
			r:    Route{CGIPass: "/usr/bin/php-cgi", CGIExtension: ".php"},
			path: "/cgi-bin/script.php",
			want: true,
		},
		{
			name: "trigger extension does not match",
			r:    Route{CGIPass: "/usr/bin/php-cgi", CGIExtension: ".php"},
			path: "/cgi-bin/script.sh",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.IsCGI(tt.path))
		})
	}
}

func TestValidateRejectsDuplicateListen(t *testing.T) {
	cfg := &Config{Servers: []*Server{
		{Listen: []int{8080}},
		{Listen: []int{8080}},
	}}
	assert.Error(t, cfg.Validate())
}

func TestValidateAllowsMultiplePortsOnSameServer(t *testing.T) {
	cfg := &Config{Servers: []*Server{
		{Listen: []int{8080, 8081}},
	}}
	assert.NoError(t, cfg.Validate())
}

func TestValidateAllowsDistinctPorts(t *testing.T) {
	cfg := &Config{Servers: []*Server{
		{Listen: []int{8080}},
		{Listen: []int{8081}},
	}}
	assert.NoError(t, cfg.Validate())
}
