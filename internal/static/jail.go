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

// Package static implements the Static Handler of §4.5: jailed path
// resolution, file serving, directory indexing, multipart upload, and
// restricted-subtree delete.
package static

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve joins root and the request path's remainder, canonicalises the
// result, and checks it still lies under root's own canonical form
// (§4.5's jail check, the sole defence against path traversal).
//
// The target need not exist yet (upload destinations and delete targets
// commonly don't, or do and are about to not); canonicalisation walks up
// to the longest existing ancestor, resolves symlinks on that ancestor,
// and rejoins the remaining literal components.
func Resolve(root, remainder string) (path string, jailed bool, err error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false, err
	}
	rootCanon, err := resolveBestEffort(rootAbs)
	if err != nil {
		return "", false, err
	}

	joined := filepath.Join(rootAbs, remainder)
	canon, err := resolveBestEffort(joined)
	if err != nil {
		return "", false, err
	}

	if canon == rootCanon || strings.HasPrefix(canon, rootCanon+string(filepath.Separator)) {
		return canon, true, nil
	}
	return canon, false, nil
}

// resolveBestEffort resolves symlinks on the longest existing ancestor of
// path and rejoins whatever doesn't exist yet, so callers can jail-check
// paths that are about to be created (uploads) or are about to be
// removed (deletes) just as well as paths that already exist.
func resolveBestEffort(path string) (string, error) {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	dir, base := filepath.Split(path)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" || dir == path {
		return path, nil
	}
	resolvedDir, err := resolveBestEffort(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}
