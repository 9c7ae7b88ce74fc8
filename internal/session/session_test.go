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

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateMintsOnMissingCookie(t *testing.T) {
	s := &Store{}
	id, isNew := s.GetOrCreate("")
	require.True(t, isNew)
	assert.Len(t, id, 16)
}

func TestGetOrCreateReturnsExistingIDWithoutMinting(t *testing.T) {
	s := &Store{}
	first, isNew := s.GetOrCreate("")
	require.True(t, isNew)

	second, isNew := s.GetOrCreate("SESSIONID=" + first)
	assert.False(t, isNew)
	assert.Equal(t, first, second)
}

// TestSessionProperty is §8's session property: two successive requests
// sharing a SESSIONID cookie produce no new Set-Cookie (isNew=false); a
// request without the cookie produces exactly one (isNew=true).
func TestSessionProperty(t *testing.T) {
	s := &Store{}
	id, isNew := s.GetOrCreate("")
	require.True(t, isNew)

	_, isNew = s.GetOrCreate("SESSIONID=" + id + "; theme=dark")
	assert.False(t, isNew)
}

func TestMintedIDsAreDistinct(t *testing.T) {
	s := &Store{}
	a, _ := s.GetOrCreate("")
	b, _ := s.GetOrCreate("")
	assert.NotEqual(t, a, b)
}

func TestGetOrCreateIgnoresUnrelatedCookies(t *testing.T) {
	s := &Store{}
	id, isNew := s.GetOrCreate("theme=dark; lang=en")
	assert.True(t, isNew)
	assert.Len(t, id, 16)
}
