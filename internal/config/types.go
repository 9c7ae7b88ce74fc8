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

// Package config loads the nginx-like server configuration grammar
// described in the webserv wire spec: server blocks with listen ports,
// error pages, and an ordered list of location blocks.
package config

import "fmt"

// Config is the top-level, read-only configuration: an ordered sequence
// of Server records, as bound at startup.
type Config struct {
	Servers []*Server
}

// Server is one `server { ... }` block. A Server may bind more than one
// port (repeated `listen` directives accumulate here rather than forcing
// one Server per port).
type Server struct {
	Listen            []int
	ServerName        string
	ClientMaxBodySize int64
	ErrorPages        map[int]string
	Routes            []*Route
}

// Route is one `location <prefix> { ... }` block.
type Route struct {
	Prefix         string
	AllowedMethods map[string]bool // nil/empty means "forbidden" per §4.4
	Root           string
	Index          []string
	Autoindex      bool
	Redirect       *Redirect
	CGIPass        string // interpreter path, e.g. /usr/bin/php-cgi
	CGIExtension   string // trigger extension, e.g. ".php"
	UploadStore    string
}

// Redirect is the target of a `return <code> <url>;` directive.
type Redirect struct {
	Code int
	URL  string
}

// IsCGI reports whether the route is a CGI route: it has a configured
// interpreter, and — if a trigger extension is set — the last path
// component ends with it.
func (r *Route) IsCGI(path string) bool {
	if r.CGIPass == "" {
		return false
	}
	if r.CGIExtension == "" {
		return true
	}
	ext := extensionOf(path)
	return ext == r.CGIExtension
}

func extensionOf(path string) string {
	last := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			last = path[i+1:]
			break
		}
	}
	for i := len(last) - 1; i >= 0; i-- {
		if last[i] == '.' {
			return last[i:]
		}
	}
	return ""
}

// Validate rejects configurations that bind the same port twice, which
// the spec calls out as a startup error (§4.2).
func (c *Config) Validate() error {
	seen := make(map[int]bool)
	for _, srv := range c.Servers {
		for _, port := range srv.Listen {
			if seen[port] {
				return fmt.Errorf("duplicate listen directive for port %d", port)
			}
			seen[port] = true
		}
	}
	return nil
}
