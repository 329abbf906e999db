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

package fbdev

import (
	"errors"
	"fmt"
)

// Kind classifies failures reported by this package.
type Kind int

const (
	// Unknown is returned by KindOf for errors that did not originate here.
	Unknown Kind = iota
	// IoError is a failure to open, map, unmap or close the device.
	IoError
	// IoctlFailed is a control request rejected by the kernel or driver.
	IoctlFailed
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "I/O error"
	case IoctlFailed:
		return "ioctl failed"
	}
	return "unknown error"
}

var (
	// ErrFrameLength is returned when a frame does not have exactly the size
	// of the mapped video memory.
	ErrFrameLength = errors.New("frame length does not match framebuffer length")
	// ErrPanOutOfRange is returned when a pan offset would move the visible
	// area outside of the virtual resolution.
	ErrPanOutOfRange = errors.New("pan offset out of range")
	// ErrClosed is returned by operations on a closed Framebuffer.
	ErrClosed = errors.New("framebuffer closed")
	// ErrNotSupported is returned on platforms without fbdev.
	ErrNotSupported = errors.New("not supported")
	// ErrInvalidMode is returned for console modes other than KDText and
	// KDGraphics.
	ErrInvalidMode = errors.New("invalid console mode")
	errZeroLength  = errors.New("zero length mapping")
	errOverflow    = errors.New("mapping length overflows")
)

// Error is a failure of a device operation.
type Error struct {
	Kind Kind
	// Op names the failed operation, e.g. "FBIOGET_VSCREENINFO" or "mmap".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fbdev: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func ioError(op string, err error) error {
	return &Error{Kind: IoError, Op: op, Err: err}
}

func ioctlError(op string, err error) error {
	return &Error{Kind: IoctlFailed, Op: op, Err: err}
}
