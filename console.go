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

import "fmt"

// KDMode is the rendering mode of a virtual terminal.
type KDMode int

// Supported modes, as in <linux/kd.h>.
const (
	KDText     KDMode = 0x00
	KDGraphics KDMode = 0x01
)

func (m KDMode) String() string {
	switch m {
	case KDText:
		return "text"
	case KDGraphics:
		return "graphics"
	}
	return fmt.Sprintf("KDMode(%#x)", int(m))
}

// ParseKDMode parses "text" or "graphics".
func ParseKDMode(s string) (KDMode, error) {
	switch s {
	case "text":
		return KDText, nil
	case "graphics":
		return KDGraphics, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Terminal is a virtual terminal that supports KDSETMODE and KDGETMODE.
//
// In text mode the console driver draws glyphs into the framebuffer; programs
// drawing directly should switch to graphics mode first and must switch back
// to text mode before exiting, including on error paths.
type Terminal interface {
	SetKDMode(mode KDMode) error
	KDMode() (KDMode, error)
}

// SetConsoleMode switches t to mode. Switching to the current mode again is
// allowed.
func SetConsoleMode(t Terminal, mode KDMode) error {
	if mode != KDText && mode != KDGraphics {
		return fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	if err := t.SetKDMode(mode); err != nil {
		return ioctlError("KDSETMODE", err)
	}
	return nil
}

// ConsoleMode returns the current mode of t.
func ConsoleMode(t Terminal) (KDMode, error) {
	mode, err := t.KDMode()
	if err != nil {
		return mode, ioctlError("KDGETMODE", err)
	}
	return mode, nil
}

// SetConsoleModePath opens the terminal device at path, switches it to mode
// and closes it again.
func SetConsoleModePath(path string, mode KDMode) error {
	tty, err := OpenTTY(path)
	if err != nil {
		return err
	}
	if err := SetConsoleMode(tty, mode); err != nil {
		tty.Close()
		return err
	}
	return tty.Close()
}

// SwitchConsoleMode switches t to mode and returns a function that restores
// the mode t was in before. Calling restore is up to the caller.
func SwitchConsoleMode(t Terminal, mode KDMode) (restore func() error, err error) {
	prev, err := ConsoleMode(t)
	if err != nil {
		return nil, err
	}
	if err := SetConsoleMode(t, mode); err != nil {
		return nil, err
	}
	return func() error {
		return SetConsoleMode(t, prev)
	}, nil
}
