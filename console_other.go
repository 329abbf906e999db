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

//go:build !linux

package fbdev

// TTY is a terminal device file. It is not supported on this platform.
type TTY struct{}

// OpenTTY always fails with ErrNotSupported on this platform.
func OpenTTY(path string) (*TTY, error) {
	return nil, ioError("open", ErrNotSupported)
}

// NewTTY returns a TTY whose methods fail with ErrNotSupported.
func NewTTY(fd uintptr) *TTY {
	return &TTY{}
}

func (t *TTY) SetKDMode(mode KDMode) error { return ErrNotSupported }

func (t *TTY) KDMode() (KDMode, error) { return KDText, ErrNotSupported }

func (t *TTY) Close() error { return nil }
