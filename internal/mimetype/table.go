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

// Package mimetype holds the fixed extension-to-content-type table of
// §4.5. The spec treats MIME-type table construction as an external
// collaborator; this is the minimal literal table it calls for.
package mimetype

import "strings"

var table = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"xml":  "application/xml",
	"txt":  "text/plain",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"pdf":  "application/pdf",
	"zip":  "application/zip",
}

const Default = "application/octet-stream"

// ForPath returns the content type for a file's extension, lowercased,
// falling back to Default.
func ForPath(path string) string {
	ext := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		ext = path[i+1:]
	} else {
		return Default
	}
	if t, ok := table[strings.ToLower(ext)]; ok {
		return t
	}
	return Default
}
