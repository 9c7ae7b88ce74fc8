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

// Package weblog builds the process-wide structured logger. The packages
// that log (the server loop, the static handler, CGI spawning) receive a
// *zap.Logger from their caller rather than reaching for a package-level
// global, but this is where that logger is assembled from the
// environment/CLI inputs.
package weblog

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger at the given level, writing human-readable
// console output to stderr. level accepts zap's level names
// (debug, info, warn, error); an unrecognized name falls back to info.
func New(level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core)
}

// EnvLevel reads the logger filter level from WEBSERV_LOG_LEVEL, the
// environment variable this server consults (§6: "Environment variables
// consumed: logger filter level"). Returns "info" if unset.
func EnvLevel() string {
	if v, ok := os.LookupEnv("WEBSERV_LOG_LEVEL"); ok && v != "" {
		return v
	}
	return "info"
}

// Fatalf logs a formatted error at Error level and returns it wrapped, for
// callers (cmd/webserv) that need to both log and set a process exit code.
func Fatalf(log *zap.Logger, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	log.Error(err.Error())
	return err
}
