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

// Command webserv runs the event-driven HTTP/1.1 origin server described
// in §2-§5 against a single configuration file.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webserv/webserv/internal/config"
	"github.com/webserv/webserv/internal/weblog"
	"github.com/webserv/webserv/internal/webserver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "webserv [config-path]",
		Short: "A single-threaded, event-driven HTTP/1.1 origin server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(args[0], logLevel)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", weblog.EnvLevel(), "log level: debug, info, warn, error")
	return cmd
}

func runServer(configPath, logLevel string) error {
	log := weblog.New(logLevel)
	defer log.Sync()

	cfg, err := config.Parse(configPath)
	if err != nil {
		return weblog.Fatalf(log, "loading config %s: %v", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return weblog.Fatalf(log, "invalid config %s: %v", configPath, err)
	}

	srv, err := webserver.New(log, cfg)
	if err != nil {
		return weblog.Fatalf(log, "starting server: %v", err)
	}

	log.Info("webserv starting", zap.String("config", configPath))
	if err := srv.Run(); err != nil {
		return weblog.Fatalf(log, "server loop: %v", err)
	}
	return nil
}
