// Copyright 2018 Axel Wagner
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

package fbdev

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// TTY is a terminal device file.
type TTY struct {
	fd    int
	owned bool
}

// OpenTTY opens the terminal device at path, e.g. /dev/tty1.
func OpenTTY(path string) (*TTY, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, ioError("open", fmt.Errorf("%s: %w", path, err))
	}
	return &TTY{fd: fd, owned: true}, nil
}

// NewTTY wraps an already open terminal descriptor, such as 0 for the
// controlling terminal of the process. Close does not close fd.
func NewTTY(fd uintptr) *TTY {
	return &TTY{fd: int(fd)}
}

// SetKDMode issues KDSETMODE.
func (t *TTY) SetKDMode(mode KDMode) error {
	return unix.IoctlSetInt(t.fd, kdSetMode, int(mode))
}

// KDMode issues KDGETMODE.
func (t *TTY) KDMode() (KDMode, error) {
	m, err := unix.IoctlGetInt(t.fd, kdGetMode)
	return KDMode(m), err
}

// Close closes the terminal if it was opened by OpenTTY.
func (t *TTY) Close() error {
	if !t.owned {
		return nil
	}
	t.owned = false
	if err := unix.Close(t.fd); err != nil {
		return ioError("close", err)
	}
	return nil
}
