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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Parse reads and parses a configuration file at path into a Config.
func Parse(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	p := &parser{}
	p.lexer.load(f)
	p.advance()

	cfg := &Config{}
	for p.tok.text != "" {
		if p.tok.text != "server" {
			return nil, p.errorf("expected 'server', got %q", p.tok.text)
		}
		srv, err := p.parseServer()
		if err != nil {
			return nil, err
		}
		cfg.Servers = append(cfg.Servers, srv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type parser struct {
	lexer lexer
	tok   token
	eof   bool
}

func (p *parser) advance() {
	if p.lexer.next() {
		p.tok = p.lexer.tok
	} else {
		p.tok = token{}
		p.eof = true
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("config line %d: %s", p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) expect(text string) error {
	if p.tok.text != text {
		return p.errorf("expected %q, got %q", text, p.tok.text)
	}
	p.advance()
	return nil
}

// restOfDirective collects tokens up to (and consuming) the terminating ';'.
func (p *parser) restOfDirective() ([]string, error) {
	var args []string
	for {
		if p.eof {
			return nil, p.errorf("unexpected EOF, expected ';'")
		}
		if p.tok.text == ";" {
			p.advance()
			return args, nil
		}
		args = append(args, p.tok.text)
		p.advance()
	}
}

func (p *parser) parseServer() (*Server, error) {
	p.advance() // consume "server"
	if err := p.expect("{"); err != nil {
		return nil, err
	}

	srv := &Server{ErrorPages: make(map[int]string)}
	for p.tok.text != "}" {
		if p.eof {
			return nil, p.errorf("unexpected EOF in server block")
		}
		directive := p.tok.text
		p.advance()

		if directive == "location" {
			route, err := p.parseLocation()
			if err != nil {
				return nil, err
			}
			srv.Routes = append(srv.Routes, route)
			continue
		}

		args, err := p.restOfDirective()
		if err != nil {
			return nil, err
		}
		if err := applyServerDirective(srv, directive, args); err != nil {
			return nil, err
		}
	}
	p.advance() // consume "}"
	return srv, nil
}

func (p *parser) parseLocation() (*Route, error) {
	if p.eof {
		return nil, p.errorf("expected location prefix")
	}
	route := &Route{Prefix: p.tok.text}
	p.advance()
	if err := p.expect("{"); err != nil {
		return nil, err
	}

	for p.tok.text != "}" {
		if p.eof {
			return nil, p.errorf("unexpected EOF in location block")
		}
		directive := p.tok.text
		p.advance()
		args, err := p.restOfDirective()
		if err != nil {
			return nil, err
		}
		if err := applyLocationDirective(route, directive, args); err != nil {
			return nil, err
		}
	}
	p.advance() // consume "}"
	return route, nil
}

func applyServerDirective(srv *Server, directive string, args []string) error {
	switch directive {
	case "listen":
		if len(args) != 1 {
			return fmt.Errorf("listen: expected one port argument")
		}
		port, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("listen: invalid port %q: %w", args[0], err)
		}
		srv.Listen = append(srv.Listen, port)
	case "server_name":
		if len(args) > 0 {
			srv.ServerName = args[0]
		}
	case "client_max_body_size":
		if len(args) != 1 {
			return fmt.Errorf("client_max_body_size: expected one argument")
		}
		// K/M/G are binary multiples, as in nginx: "10M" is widened to
		// humanize's "10Mi" so it parses as 10 MiB rather than 10 MB.
		size := args[0]
		if strings.ContainsRune("kKmMgG", rune(size[len(size)-1])) {
			size += "i"
		}
		n, err := humanize.ParseBytes(size)
		if err != nil {
			return fmt.Errorf("client_max_body_size: %w", err)
		}
		srv.ClientMaxBodySize = int64(n)
	case "error_page":
		if len(args) != 2 {
			return fmt.Errorf("error_page: expected '<code> <path>'")
		}
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("error_page: invalid code %q: %w", args[0], err)
		}
		srv.ErrorPages[code] = args[1]
	default:
		return fmt.Errorf("unrecognized server directive %q", directive)
	}
	return nil
}

func applyLocationDirective(route *Route, directive string, args []string) error {
	switch directive {
	case "allow_methods":
		route.AllowedMethods = make(map[string]bool, len(args))
		for _, m := range args {
			route.AllowedMethods[strings.ToUpper(m)] = true
		}
	case "root":
		if len(args) != 1 {
			return fmt.Errorf("root: expected one argument")
		}
		route.Root = args[0]
	case "index":
		route.Index = append(route.Index, args...)
	case "autoindex":
		if len(args) != 1 {
			return fmt.Errorf("autoindex: expected 'on' or 'off'")
		}
		route.Autoindex = args[0] == "on"
	case "return":
		if len(args) != 2 {
			return fmt.Errorf("return: expected '<code> <url>'")
		}
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("return: invalid code %q: %w", args[0], err)
		}
		route.Redirect = &Redirect{Code: code, URL: args[1]}
	case "cgi_pass":
		if len(args) == 0 {
			return fmt.Errorf("cgi_pass: expected an interpreter path")
		}
		route.CGIPass = args[0]
		if len(args) > 1 {
			route.CGIExtension = args[1]
		}
	case "upload_store":
		if len(args) != 1 {
			return fmt.Errorf("upload_store: expected one argument")
		}
		route.UploadStore = args[0]
	default:
		return fmt.Errorf("unrecognized location directive %q", directive)
	}
	return nil
}
