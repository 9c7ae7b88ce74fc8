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
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/httpmsg"
)

// HandleUpload implements the POST/multipart upload path of §4.5. The
// multipart parser here is intentionally the minimal scanner the spec
// calls for ("summarised; its correctness is not the core's claim"),
// not a general MIME multipart reader.
func (h *Handler) HandleUpload(route *config.Route, req *httpmsg.Request) *httpmsg.Response {
	if route.UploadStore == "" {
		return errorResponse(404)
	}

	contentType := req.Header("content-type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return errorResponse(400)
	}
	boundary := boundaryParam(contentType)
	if boundary == "" {
		return errorResponse(400)
	}

	if err := os.MkdirAll(route.UploadStore, 0o755); err != nil {
		h.Log.Error("creating upload store", zap.String("dir", route.UploadStore), zap.Error(err))
		return errorResponse(500)
	}

	filename, data, ok := findUploadedFile(req.Body, boundary)
	if !ok {
		return errorResponse(400)
	}

	dest := filepath.Join(route.UploadStore, filepath.Base(filename))
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		h.Log.Error("writing uploaded file", zap.String("path", dest), zap.Error(err))
		return errorResponse(500)
	}

	resp := httpmsg.NewResponse(200)
	body := []byte(`<html><body><h1>Upload complete</h1><a href="` + filename + `">` + filename + `</a></body></html>`)
	resp.SetHeader("content-type", "text/html")
	resp.SetBody(body)
	return resp
}

func boundaryParam(contentType string) string {
	parts := strings.Split(contentType, ";")
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if name, value, ok := strings.Cut(p, "="); ok && strings.EqualFold(strings.TrimSpace(name), "boundary") {
			return strings.Trim(strings.TrimSpace(value), `"`)
		}
	}
	return ""
}

// findUploadedFile scans body for the first part whose Content-Disposition
// carries a non-empty filename, per §4.5: a part is delimited by
// "--boundary", its header block ends at the first CRLF CRLF, and the
// bytes that follow (trimmed of the trailing framing CRLF/'-') are the
// file content.
func findUploadedFile(body []byte, boundary string) (filename string, data []byte, ok bool) {
	delim := []byte("--" + boundary)
	parts := bytes.Split(body, delim)
	for _, part := range parts {
		part = bytes.TrimPrefix(part, []byte("\r\n"))
		sep := bytes.Index(part, []byte("\r\n\r\n"))
		if sep < 0 {
			continue
		}
		header := string(part[:sep])
		if !strings.Contains(strings.ToLower(header), "content-disposition") {
			continue
		}
		name := filenameFromDisposition(header)
		if name == "" {
			continue
		}
		content := part[sep+4:]
		content = bytes.TrimSuffix(content, []byte("--"))
		content = bytes.TrimSuffix(content, []byte("\r\n"))
		return name, content, true
	}
	return "", nil, false
}

func filenameFromDisposition(header string) string {
	idx := strings.Index(header, "filename=\"")
	if idx < 0 {
		return ""
	}
	rest := header[idx+len("filename=\""):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}
