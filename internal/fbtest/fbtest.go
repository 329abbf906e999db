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

// Package fbtest provides in-memory implementations of fbdev.Device and
// fbdev.Terminal for tests.
package fbtest

import (
	"errors"

	"github.com/Merovius/fbdev"
)

// Errors returned by Device and Terminal for invalid use.
var (
	ErrNotMapped   = errors.New("fbtest: munmap of unmapped memory")
	ErrInvalidLen  = errors.New("fbtest: invalid mapping length")
	ErrDeviceClose = errors.New("fbtest: device already closed")
)

// Device is a fake framebuffer device whose video memory is a byte slice.
// The *Err fields make the corresponding method fail.
type Device struct {
	Fix fbdev.FixScreeninfo
	Var fbdev.VarScreeninfo

	VarErr, FixErr, PutErr, PanErr error
	MmapErr, MunmapErr, CloseErr   error

	// Video is the video memory of the device. It survives Close, so a
	// reopened device shows what was written before.
	Video []byte
	// Mem is the mapping handed out by Mmap. It is nil while unmapped.
	Mem []byte
	// ShortMap makes Mmap return that many bytes less than requested.
	ShortMap int

	// Calls records the order of method calls by name.
	Calls  []string
	Puts   []fbdev.VarScreeninfo
	Pans   []fbdev.VarScreeninfo
	Closed bool
}

var _ fbdev.Device = (*Device)(nil)

// NewDevice returns a Device reporting a true color mode with the given
// geometry. The virtual resolution equals the visible one.
func NewDevice(xres, yres, bitsPerPixel, lineLength uint32) *Device {
	d := &Device{}
	copy(d.Fix.ID[:], "fbtest")
	d.Fix.LineLength = lineLength
	d.Fix.SmemLen = lineLength * yres
	d.Var = fbdev.VarScreeninfo{
		Xres:         xres,
		Yres:         yres,
		XresVirtual:  xres,
		YresVirtual:  yres,
		BitsPerPixel: bitsPerPixel,
	}
	if bitsPerPixel == 32 {
		d.Var.Blue = fbdev.Bitfield{Offset: 0, Length: 8}
		d.Var.Green = fbdev.Bitfield{Offset: 8, Length: 8}
		d.Var.Red = fbdev.Bitfield{Offset: 16, Length: 8}
		d.Var.Transp = fbdev.Bitfield{Offset: 24, Length: 8}
	}
	return d
}

func (d *Device) call(name string) error {
	d.Calls = append(d.Calls, name)
	if d.Closed {
		return ErrDeviceClose
	}
	return nil
}

func (d *Device) VarScreeninfo() (fbdev.VarScreeninfo, error) {
	if err := d.call("VarScreeninfo"); err != nil {
		return fbdev.VarScreeninfo{}, err
	}
	if d.VarErr != nil {
		return fbdev.VarScreeninfo{}, d.VarErr
	}
	return d.Var, nil
}

func (d *Device) PutVarScreeninfo(v *fbdev.VarScreeninfo) error {
	if err := d.call("PutVarScreeninfo"); err != nil {
		return err
	}
	if d.PutErr != nil {
		return d.PutErr
	}
	// Drivers round the virtual resolution up to the visible one.
	if v.XresVirtual < v.Xres {
		v.XresVirtual = v.Xres
	}
	if v.YresVirtual < v.Yres {
		v.YresVirtual = v.Yres
	}
	d.Puts = append(d.Puts, *v)
	d.Var = *v
	return nil
}

func (d *Device) FixScreeninfo() (fbdev.FixScreeninfo, error) {
	if err := d.call("FixScreeninfo"); err != nil {
		return fbdev.FixScreeninfo{}, err
	}
	if d.FixErr != nil {
		return fbdev.FixScreeninfo{}, d.FixErr
	}
	return d.Fix, nil
}

func (d *Device) PanDisplay(v *fbdev.VarScreeninfo) error {
	if err := d.call("PanDisplay"); err != nil {
		return err
	}
	if d.PanErr != nil {
		return d.PanErr
	}
	d.Pans = append(d.Pans, *v)
	d.Var.Xoffset, d.Var.Yoffset = v.Xoffset, v.Yoffset
	return nil
}

func (d *Device) Mmap(length int) ([]byte, error) {
	if err := d.call("Mmap"); err != nil {
		return nil, err
	}
	if d.MmapErr != nil {
		return nil, d.MmapErr
	}
	if length <= 0 {
		return nil, ErrInvalidLen
	}
	if len(d.Video) != length {
		d.Video = make([]byte, length)
	}
	d.Mem = d.Video[:length-d.ShortMap]
	return d.Mem, nil
}

func (d *Device) Munmap(b []byte) error {
	if err := d.call("Munmap"); err != nil {
		return err
	}
	if d.Mem == nil || len(b) != len(d.Mem) || (len(b) > 0 && &b[0] != &d.Mem[0]) {
		return ErrNotMapped
	}
	d.Mem = nil
	return d.MunmapErr
}

func (d *Device) Close() error {
	if err := d.call("Close"); err != nil {
		return err
	}
	d.Closed = true
	return d.CloseErr
}

// Reopen makes a closed Device usable again, like opening the device file a
// second time.
func (d *Device) Reopen() *Device {
	d.Closed = false
	d.Calls = nil
	return d
}

// Mapped reports whether video memory is currently mapped.
func (d *Device) Mapped() bool {
	return d.Mem != nil
}

// Terminal is a fake virtual terminal.
type Terminal struct {
	Mode   fbdev.KDMode
	SetErr error
	GetErr error
	// Sets records every mode passed to SetKDMode.
	Sets []fbdev.KDMode
}

var _ fbdev.Terminal = (*Terminal)(nil)

func (t *Terminal) SetKDMode(mode fbdev.KDMode) error {
	if t.SetErr != nil {
		return t.SetErr
	}
	t.Sets = append(t.Sets, mode)
	t.Mode = mode
	return nil
}

func (t *Terminal) KDMode() (fbdev.KDMode, error) {
	if t.GetErr != nil {
		return 0, t.GetErr
	}
	return t.Mode, nil
}
