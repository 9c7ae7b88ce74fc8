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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, body string) (*Config, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "webserv.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return Parse(path)
}

func TestParseMinimalServer(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	server_name example;

	location / {
		allow_methods GET;
		root /var/www;
		index index.html;
	}
}
`)
	require.NoError(t, err)
	require.Len(t, cfg.Servers, 1)
	srv := cfg.Servers[0]
	assert.Equal(t, []int{8080}, srv.Listen)
	assert.Equal(t, "example", srv.ServerName)
	require.Len(t, srv.Routes, 1)
	assert.Equal(t, "/", srv.Routes[0].Prefix)
	assert.True(t, srv.Routes[0].AllowedMethods["GET"])
	assert.Equal(t, "/var/www", srv.Routes[0].Root)
	assert.Equal(t, []string{"index.html"}, srv.Routes[0].Index)
}

func TestParseCommentsIgnored(t *testing.T) {
	cfg, err := parseString(t, `
# top-level comment
server {
	listen 8080; # inline comment
	location / {
		allow_methods GET;
	}
}
`)
	require.NoError(t, err)
	assert.Equal(t, []int{8080}, cfg.Servers[0].Listen)
}

func TestParseClientMaxBodySizeSuffixes(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	client_max_body_size 10M;
	location / { allow_methods GET; }
}
`)
	require.NoError(t, err)
	assert.EqualValues(t, 10*1024*1024, cfg.Servers[0].ClientMaxBodySize)
}

func TestParseErrorPage(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	error_page 404 /errors/404.html;
	location / { allow_methods GET; }
}
`)
	require.NoError(t, err)
	assert.Equal(t, "/errors/404.html", cfg.Servers[0].ErrorPages[404])
}

func TestParseLocationDirectives(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	location /cgi-bin {
		allow_methods GET POST;
		cgi_pass /usr/bin/php-cgi .php;
	}
	location /uploads {
		allow_methods POST DELETE;
		upload_store /var/uploads;
	}
	location /old {
		return 301 /new;
	}
	location /browse {
		autoindex on;
	}
	location /forbidden {
	}
}
`)
	require.NoError(t, err)
	srv := cfg.Servers[0]

	byPrefix := make(map[string]*Route)
	for _, r := range srv.Routes {
		byPrefix[r.Prefix] = r
	}

	cgi := byPrefix["/cgi-bin"]
	assert.Equal(t, "/usr/bin/php-cgi", cgi.CGIPass)
	assert.Equal(t, ".php", cgi.CGIExtension)

	uploads := byPrefix["/uploads"]
	assert.Equal(t, "/var/uploads", uploads.UploadStore)

	old := byPrefix["/old"]
	require.NotNil(t, old.Redirect)
	assert.Equal(t, 301, old.Redirect.Code)
	assert.Equal(t, "/new", old.Redirect.URL)

	browse := byPrefix["/browse"]
	assert.True(t, browse.Autoindex)

	forbidden := byPrefix["/forbidden"]
	assert.Empty(t, forbidden.AllowedMethods)
}

func TestParseMultipleListenDirectivesAccumulate(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	listen 8081;
	location / { allow_methods GET; }
}
`)
	require.NoError(t, err)
	assert.Equal(t, []int{8080, 8081}, cfg.Servers[0].Listen)
}

func TestParseDuplicateBindRejected(t *testing.T) {
	_, err := parseString(t, `
server {
	listen 8080;
	location / { allow_methods GET; }
}
server {
	listen 8080;
	location / { allow_methods GET; }
}
`)
	assert.Error(t, err)
}

func TestParseMultipleServers(t *testing.T) {
	cfg, err := parseString(t, `
server {
	listen 8080;
	location / { allow_methods GET; }
}
server {
	listen 9090;
	location / { allow_methods GET; }
}
`)
	require.NoError(t, err)
	assert.Len(t, cfg.Servers, 2)
}

func TestParseUnrecognizedDirectiveErrors(t *testing.T) {
	_, err := parseString(t, `
server {
	listen 8080;
	bogus_directive value;
	location / { allow_methods GET; }
}
`)
	assert.Error(t, err)
}

func TestParseMissingSemicolonErrors(t *testing.T) {
	_, err := parseString(t, `
server {
	listen 8080
	location / { allow_methods GET; }
}
`)
	assert.Error(t, err)
}
