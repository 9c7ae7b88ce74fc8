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
	"html"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/webserv/webserv/internal/httpmsg"
)

// entry is one row of an autoindex listing.
type entry struct {
	name  string
	isDir bool
}

// autoindex builds an HTML directory listing of dirPath's non-hidden
// entries, sorted directories-first then lexicographically, each an
// anchor relative to urlPath (§4.5). The dirs-first-then-lexicographic
// order mirrors the teacher's directoryListing in browselisting.go.
func (h *Handler) autoindex(dirPath, urlPath string) *httpmsg.Response {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return errorResponse(403)
	}

	var entries []entry
	for _, de := range dirEntries {
		name := de.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entries = append(entries, entry{name: name, isDir: de.IsDir()})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		return entries[i].name < entries[j].name
	})

	var b strings.Builder
	b.WriteString("<html><head><title>Index of ")
	b.WriteString(html.EscapeString(urlPath))
	b.WriteString("</title></head><body><h1>Index of ")
	b.WriteString(html.EscapeString(urlPath))
	b.WriteString("</h1><ul>\n")
	for _, e := range entries {
		name := e.name
		if e.isDir {
			name += "/"
		}
		href := url.URL{Path: name}
		b.WriteString(`<li><a href="`)
		b.WriteString(href.String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(name))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("</ul></body></html>")

	resp := httpmsg.NewResponse(200)
	resp.SetHeader("content-type", "text/html")
	resp.SetBody([]byte(b.String()))
	return resp
}
