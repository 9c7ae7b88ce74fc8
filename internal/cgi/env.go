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

// Package cgi spawns CGI/1.1 scripts as child processes and drives their
// stdin/stdout/stderr pipes through the reactor (§4.6).
package cgi

import (
	"os"
	"strconv"
	"strings"

	"github.com/webserv/webserv/internal/httpmsg"
)

// buildEnv constructs the CGI/1.1 environment for req, in the style of
// the teacher's fastcgi.buildEnv (env as a map assembled from request
// fields plus one HTTP_* entry per request header), adapted from the
// FastCGI binary-protocol handler to the plain CGI subprocess-environment
// model this spec calls for.
func buildEnv(req *httpmsg.Request, remoteAddr string) map[string]string {
	env := map[string]string{
		"REQUEST_METHOD":    req.Method.String(),
		"REQUEST_URI":       req.Target,
		"QUERY_STRING":      req.RawQuery,
		"CONTENT_LENGTH":    strconv.Itoa(len(req.Body)),
		"REMOTE_ADDR":       remoteAddr,
		"SERVER_SOFTWARE":   "webserv/1.0",
		"GATEWAY_INTERFACE": "CGI/1.1",
		"SERVER_PROTOCOL":   "HTTP/1.1",
	}
	if ct := req.Header("content-type"); ct != "" {
		env["CONTENT_TYPE"] = ct
	}
	for name, value := range req.Headers {
		env["HTTP_"+headerEnvName(name)] = value
	}
	return env
}

// headerEnvName uppercases a lowercased header name and turns hyphens
// into underscores, e.g. "x-forwarded-for" -> "X_FORWARDED_FOR" (§4.6).
func headerEnvName(name string) string {
	upper := strings.ToUpper(name)
	return strings.ReplaceAll(upper, "-", "_")
}

// environSlice renders env as "NAME=value" pairs, appended atop the
// minimal inherited PATH so the interpreter itself can be resolved by
// the OS loader for scripts that rely on it being set.
func environSlice(env map[string]string) []string {
	out := make([]string, 0, len(env)+1)
	if path := os.Getenv("PATH"); path != "" {
		out = append(out, "PATH="+path)
	}
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
