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

// Package session implements the Session Helper of §4.8: an opaque
// 16-character identifier minted from a cookie header, recorded in a
// process-wide table. The table has no eviction; per §5, the interface
// is kept lock-ready for a future multi-threaded caller even though the
// single-threaded event loop never needs the mutex it holds.
package session

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store is the process-wide session-id -> opaque-value table of §3.
// The zero value is usable.
type Store struct {
	mu     sync.Mutex
	values map[string]any
}

// GetOrCreate scans cookieHeader for SESSIONID=<value>. If found, it
// returns that id and isNew=false. Otherwise it mints a fresh 16-char
// alphanumeric id, records it, and returns isNew=true so the response
// layer knows to emit Set-Cookie (§4.8, §8 "session" property).
func (s *Store) GetOrCreate(cookieHeader string) (id string, isNew bool) {
	if existing, ok := findSessionCookie(cookieHeader); ok {
		s.mu.Lock()
		if s.values == nil {
			s.values = make(map[string]any)
		}
		if _, known := s.values[existing]; !known {
			s.values[existing] = nil
		}
		s.mu.Unlock()
		return existing, false
	}

	id = newID()
	s.mu.Lock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[id] = nil
	s.mu.Unlock()
	return id, true
}

func findSessionCookie(cookieHeader string) (string, bool) {
	for _, piece := range strings.Split(cookieHeader, ";") {
		piece = strings.TrimSpace(piece)
		name, value, ok := strings.Cut(piece, "=")
		if ok && name == "SESSIONID" && value != "" {
			return value, true
		}
	}
	return "", false
}

// newID derives a 16-character alphanumeric identifier from a random
// UUID's hex digits: enough entropy for an opaque session token without
// reaching for a bespoke random-string generator when the module graph
// already carries a well-vetted one.
func newID() string {
	u := uuid.New()
	hex := strings.ReplaceAll(u.String(), "-", "")
	return hex[:16]
}
