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

package weblog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFallsBackToInfoOnUnrecognizedLevel(t *testing.T) {
	log := New("not-a-real-level")
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(0)) // zapcore.InfoLevel == 0
}

func TestEnvLevelDefaultsToInfo(t *testing.T) {
	os.Unsetenv("WEBSERV_LOG_LEVEL")
	assert.Equal(t, "info", EnvLevel())
}

func TestEnvLevelReadsEnvironment(t *testing.T) {
	t.Setenv("WEBSERV_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", EnvLevel())
}

func TestFatalfLogsAndReturnsError(t *testing.T) {
	log := New("error")
	err := Fatalf(log, "boom: %s", "oops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom: oops")
}
