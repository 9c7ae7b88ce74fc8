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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, input string) []token {
	t.Helper()
	var l lexer
	l.load(strings.NewReader(input))
	var toks []token
	for l.next() {
		toks = append(toks, l.tok)
	}
	return toks
}

func TestLexerBasicTokens(t *testing.T) {
	toks := lexAll(t, "listen 8080;")
	require.Len(t, toks, 3)
	require.Equal(t, "listen", toks[0].text)
	require.Equal(t, "8080", toks[1].text)
	require.Equal(t, ";", toks[2].text)
}

func TestLexerBracesAreOwnTokens(t *testing.T) {
	toks := lexAll(t, "server{location /}")
	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.text)
	}
	require.Equal(t, []string{"server", "{", "location", "/", "}"}, texts)
}

func TestLexerCommentsSkipped(t *testing.T) {
	toks := lexAll(t, "listen 8080; # a comment\nserver_name x;")
	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.text)
	}
	require.Equal(t, []string{"listen", "8080", ";", "server_name", "x", ";"}, texts)
}

func TestLexerTracksLineNumbers(t *testing.T) {
	toks := lexAll(t, "listen 8080;\nserver_name x;")
	require.Equal(t, 1, toks[0].line)
	require.Equal(t, 2, toks[3].line)
}
