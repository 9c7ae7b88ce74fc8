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

package cgi

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/webserv/webserv/internal/httpmsg"
)

// Conn is the CGI Connection of §3: a running child process, its three
// pipe endpoints (as raw, non-blocking fds so the reactor can drive them
// without fighting the Go runtime's own netpoller over an *os.File), and
// the bookkeeping the completion state machine of §4.6 needs.
type Conn struct {
	cmd *exec.Cmd

	ClientFd int // originating client, an index into the server's connection table, never a pointer (§9)

	// CookieHeader is the originating request's raw Cookie header,
	// captured at spawn time so the session policy of §4.8 can be
	// applied when the response is built asynchronously, long after the
	// httpmsg.Request itself has gone out of scope.
	CookieHeader string

	stdinFd  int
	stdoutFd int
	stderrFd int

	body       []byte
	bodyCursor int

	OutputBuf []byte
	ErrorBuf  []byte

	StdinDone  bool
	StdoutDone bool
	StderrDone bool
}

// StdinFd, StdoutFdNo, StderrFdNo expose the raw fds for reactor registration.
func (c *Conn) StdinFd() int    { return c.stdinFd }
func (c *Conn) StdoutFdNo() int { return c.stdoutFd }
func (c *Conn) StderrFdNo() int { return c.stderrFd }

// Spawn locates the script, constructs its CGI/1.1 environment, and
// starts it with all three standard streams piped and set non-blocking
// (§4.6). clientFd is stored, never dereferenced, so it survives the
// originating client disconnecting mid-request (§9).
func Spawn(log *zap.Logger, interpreter, scriptPath string, req *httpmsg.Request, remoteAddr string, clientFd int) (*Conn, error) {
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("cgi: script not found: %w", err)
	}

	stdinR, stdinW, err := pipe()
	if err != nil {
		return nil, fmt.Errorf("cgi: stdin pipe: %w", err)
	}
	stdoutR, stdoutW, err := pipe()
	if err != nil {
		unix.Close(stdinR)
		unix.Close(stdinW)
		return nil, fmt.Errorf("cgi: stdout pipe: %w", err)
	}
	stderrR, stderrW, err := pipe()
	if err != nil {
		unix.Close(stdinR)
		unix.Close(stdinW)
		unix.Close(stdoutR)
		unix.Close(stdoutW)
		return nil, fmt.Errorf("cgi: stderr pipe: %w", err)
	}

	if err := unix.SetNonblock(stdinW, true); err != nil {
		closeAll(stdinR, stdinW, stdoutR, stdoutW, stderrR, stderrW)
		return nil, fmt.Errorf("cgi: set stdin nonblocking: %w", err)
	}
	if err := unix.SetNonblock(stdoutR, true); err != nil {
		closeAll(stdinR, stdinW, stdoutR, stdoutW, stderrR, stderrW)
		return nil, fmt.Errorf("cgi: set stdout nonblocking: %w", err)
	}
	if err := unix.SetNonblock(stderrR, true); err != nil {
		closeAll(stdinR, stdinW, stdoutR, stdoutW, stderrR, stderrW)
		return nil, fmt.Errorf("cgi: set stderr nonblocking: %w", err)
	}

	cmd := exec.Command(interpreter, scriptPath)
	cmd.Dir = filepath.Dir(scriptPath)
	cmd.Env = environSlice(buildEnv(req, remoteAddr))

	childStdin := os.NewFile(uintptr(stdinR), "cgi-stdin")
	childStdout := os.NewFile(uintptr(stdoutW), "cgi-stdout")
	childStderr := os.NewFile(uintptr(stderrW), "cgi-stderr")
	cmd.Stdin = childStdin
	cmd.Stdout = childStdout
	cmd.Stderr = childStderr

	startErr := cmd.Start()
	// Whether or not Start succeeded, the parent's copies of the
	// child-side fds must be closed so EOF propagates when the child
	// exits (§4.6).
	childStdin.Close()
	childStdout.Close()
	childStderr.Close()

	if startErr != nil {
		unix.Close(stdinW)
		unix.Close(stdoutR)
		unix.Close(stderrR)
		return nil, fmt.Errorf("cgi: spawn %s: %w", scriptPath, startErr)
	}

	return &Conn{
		cmd:      cmd,
		ClientFd: clientFd,
		stdinFd:  stdinW,
		stdoutFd: stdoutR,
		stderrFd: stderrR,
		body:     req.Body,
	}, nil
}

func pipe() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

func closeAll(fds ...int) {
	for _, fd := range fds {
		unix.Close(fd)
	}
}

// WriteStdin writes as much of the request body as the pipe will accept
// without blocking, per the stdin sub-state of §4.6. It closes stdin
// (signalling EOF to the child) once the cursor reaches the body length.
func (c *Conn) WriteStdin() error {
	if c.StdinDone {
		return nil
	}
	if len(c.body) == 0 {
		unix.Close(c.stdinFd)
		c.StdinDone = true
		return nil
	}
	for c.bodyCursor < len(c.body) {
		n, err := unix.Write(c.stdinFd, c.body[c.bodyCursor:])
		if err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			unix.Close(c.stdinFd)
			c.StdinDone = true
			return fmt.Errorf("cgi: write stdin: %w", err)
		}
		c.bodyCursor += n
	}
	unix.Close(c.stdinFd)
	c.StdinDone = true
	return nil
}

// ReadStdout drains available stdout bytes into OutputBuf, marking
// StdoutDone on EOF.
func (c *Conn) ReadStdout() error {
	return c.drain(&c.OutputBuf, c.stdoutFd, &c.StdoutDone)
}

// ReadStderr drains available stderr bytes into ErrorBuf, marking
// StderrDone on EOF.
func (c *Conn) ReadStderr() error {
	return c.drain(&c.ErrorBuf, c.stderrFd, &c.StderrDone)
}

func (c *Conn) drain(buf *[]byte, fd int, done *bool) error {
	if *done {
		return nil
	}
	readBuf := make([]byte, 8192)
	for {
		n, err := unix.Read(fd, readBuf)
		if err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			unix.Close(fd)
			*done = true
			return fmt.Errorf("cgi: read: %w", err)
		}
		if n == 0 {
			unix.Close(fd)
			*done = true
			return nil
		}
		*buf = append(*buf, readBuf[:n]...)
	}
}

// Complete reports whether both stdout and stderr have reached EOF
// (§4.6's completion condition; stdin may still be draining on a CGI
// script that doesn't read its whole body before producing output, but
// the spec ties completion to stdout/stderr only).
func (c *Conn) Complete() bool {
	return c.StdoutDone && c.StderrDone
}

// Reap waits for the child process in the background so it doesn't
// become a zombie. It never touches connection or CGI-table state, so
// running it off the event loop's goroutine doesn't violate the
// single-threaded state-mutation invariant of §5.
func (c *Conn) Reap() {
	go func() {
		_ = c.cmd.Wait()
	}()
}

// StderrNonEmpty reports whether the script wrote anything to stderr,
// used by the 500-on-stderr policy of §4.6/§7.
func (c *Conn) StderrNonEmpty() bool {
	return len(bytes.TrimSpace(c.ErrorBuf)) > 0
}
