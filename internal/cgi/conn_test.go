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

//go:build linux

package cgi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/httpmsg"
)

// TestSpawnDrivesStdinStdoutToCompletion exercises the three-pipe state
// machine of §4.6 end to end against a real child process: a shell
// script that echoes its stdin to stdout.
func TestSpawnDrivesStdinStdoutToCompletion(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "echo.sh")
	require.NoError(t, os.WriteFile(script, []byte("cat\n"), 0o755))

	req := &httpmsg.Request{
		Method:  httpmsg.MethodPost,
		Target:  "/cgi-bin/echo.sh",
		Body:    []byte("hello"),
		Headers: map[string]string{},
	}

	conn, err := Spawn(zap.NewNop(), "/bin/sh", script, req, "127.0.0.1", 42)
	require.NoError(t, err)
	defer conn.Reap()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := conn.WriteStdin(); err != nil {
			t.Fatalf("WriteStdin: %v", err)
		}
		if err := conn.ReadStdout(); err != nil {
			t.Fatalf("ReadStdout: %v", err)
		}
		if err := conn.ReadStderr(); err != nil {
			t.Fatalf("ReadStderr: %v", err)
		}
		if conn.Complete() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cgi connection did not complete in time")
		}
		time.Sleep(time.Millisecond)
	}

	assert.True(t, conn.StdinDone)
	assert.Equal(t, "hello", string(conn.OutputBuf))
	assert.False(t, conn.StderrNonEmpty())
	assert.Equal(t, 42, conn.ClientFd)
}

func TestSpawnMissingScriptIs500Grounds(t *testing.T) {
	req := &httpmsg.Request{Headers: map[string]string{}}
	_, err := Spawn(zap.NewNop(), "/bin/sh", "/no/such/script.sh", req, "", 1)
	assert.Error(t, err)
}
