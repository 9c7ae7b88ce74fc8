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

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// epollReactor implements Reactor over Linux epoll, the same family of
// syscall the teacher reaches for via golang.org/x/sys/unix in
// listen_linux.go (there for SO_REUSEPORT; here for the readiness loop
// itself).
type epollReactor struct {
	epfd int
}

// New creates an epoll-backed Reactor.
func New() (Reactor, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll_create1: %w", err)
	}
	return &epollReactor{epfd: fd}, nil
}

func (r *epollReactor) AddListener(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("reactor: add listener fd %d: %w", fd, err)
	}
	return nil
}

func (r *epollReactor) AddClient(fd int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLOUT | unix.EPOLLET,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("reactor: add client fd %d: %w", fd, err)
	}
	return nil
}

func (r *epollReactor) Remove(fd int) error {
	// Per-fd event argument is ignored by EPOLL_CTL_DEL on modern kernels,
	// but older kernels require a non-nil pointer.
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, &unix.EpollEvent{}); err != nil {
		return fmt.Errorf("reactor: remove fd %d: %w", fd, err)
	}
	return nil
}

func (r *epollReactor) Wait(timeout time.Duration) ([]Event, error) {
	raw := make([]unix.EpollEvent, MaxEvents)
	ms := int(timeout / time.Millisecond)
	n, err := unix.EpollWait(r.epfd, raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, fmt.Errorf("reactor: epoll_wait: %w", err)
	}
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		e := raw[i]
		events = append(events, Event{
			Fd:       int(e.Fd),
			Readable: e.Events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0,
			Writable: e.Events&(unix.EPOLLOUT|unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return events, nil
}

func (r *epollReactor) Close() error {
	return unix.Close(r.epfd)
}
