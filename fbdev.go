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

// Package fbdev provides access to Linux framebuffer devices (/dev/fbN).
//
// A Framebuffer maps the complete virtual video memory of a device and allows
// reading and writing it as a raw byte buffer. Pixels are laid out as
// consecutive scanlines of FixScreeninfo.LineLength bytes; the channel layout
// of a pixel is described by the bitfields in VarScreeninfo. No rendering or
// color conversion is done by this package.
//
// A Framebuffer is not safe for concurrent use. Nothing prevents several
// processes from opening the same device; their writes race in video memory.
package fbdev

import (
	"fmt"
	"math"
)

// Framebuffer is an open framebuffer device together with its memory
// mapping.
type Framebuffer struct {
	dev   Device
	mem   []byte
	vinfo VarScreeninfo
	finfo FixScreeninfo
}

// Open opens the framebuffer device at path, typically /dev/fb0.
func Open(path string) (*Framebuffer, error) {
	dev, err := OpenDevice(path)
	if err != nil {
		return nil, err
	}
	return New(dev)
}

// New queries the screen information of dev and maps its video memory. dev
// is owned by the returned Framebuffer. If New fails, dev is closed.
func New(dev Device) (*Framebuffer, error) {
	fb, err := newFramebuffer(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return fb, nil
}

func newFramebuffer(dev Device) (*Framebuffer, error) {
	fb := &Framebuffer{dev: dev}

	var err error
	if fb.vinfo, err = dev.VarScreeninfo(); err != nil {
		return nil, ioctlError("FBIOGET_VSCREENINFO", err)
	}
	if fb.finfo, err = dev.FixScreeninfo(); err != nil {
		return nil, ioctlError("FBIOGET_FSCREENINFO", err)
	}

	n, err := mappingLength(fb.finfo, fb.vinfo)
	if err != nil {
		return nil, ioError("mmap", err)
	}
	if fb.mem, err = dev.Mmap(n); err != nil {
		return nil, ioError("mmap", fmt.Errorf("%d bytes: %w", n, err))
	}
	if len(fb.mem) != n {
		dev.Munmap(fb.mem)
		return nil, ioError("mmap", fmt.Errorf("mapped %d bytes, want %d", len(fb.mem), n))
	}
	return fb, nil
}

// mappingLength covers the whole virtual resolution, so that areas reached by
// panning are addressable too.
func mappingLength(finfo FixScreeninfo, vinfo VarScreeninfo) (int, error) {
	n := uint64(finfo.LineLength) * uint64(vinfo.YresVirtual)
	if n == 0 {
		return 0, errZeroLength
	}
	if n > math.MaxInt {
		return 0, errOverflow
	}
	return int(n), nil
}

// Len returns the length of the mapped video memory in bytes, which is
// LineLength * YresVirtual.
func (fb *Framebuffer) Len() int {
	return len(fb.mem)
}

// FixScreeninfo returns the fixed screen information read when fb was
// opened.
func (fb *Framebuffer) FixScreeninfo() FixScreeninfo {
	return fb.finfo
}

// VarScreeninfo returns the last known variable screen information. It is
// updated by QueryVarScreeninfo, PutVarScreeninfo and Pan.
func (fb *Framebuffer) VarScreeninfo() VarScreeninfo {
	return fb.vinfo
}

// Offset returns the index of the first byte of pixel (x, y) in the frame.
func (fb *Framebuffer) Offset(x, y int) int {
	return y*int(fb.finfo.LineLength) + x*fb.vinfo.BytesPerPixel()
}

// Frame returns the mapped video memory. The slice reflects the live
// contents of the device and becomes invalid when fb is closed. Use
// WriteFrame to modify it.
func (fb *Framebuffer) Frame() []byte {
	return fb.mem
}

// ReadFrame copies the current contents of video memory into dst, which must
// have a length of exactly Len() bytes.
func (fb *Framebuffer) ReadFrame(dst []byte) error {
	if fb.mem == nil {
		return ErrClosed
	}
	if len(dst) != len(fb.mem) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(dst), len(fb.mem))
	}
	copy(dst, fb.mem)
	return nil
}

// WriteFrame copies frame into video memory. frame must have a length of
// exactly Len() bytes; otherwise ErrFrameLength is returned and video memory
// is left untouched.
func (fb *Framebuffer) WriteFrame(frame []byte) error {
	if fb.mem == nil {
		return ErrClosed
	}
	if len(frame) != len(fb.mem) {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameLength, len(frame), len(fb.mem))
	}
	copy(fb.mem, frame)
	return nil
}

// QueryVarScreeninfo reads the current variable screen information from the
// device.
func (fb *Framebuffer) QueryVarScreeninfo() (VarScreeninfo, error) {
	if fb.mem == nil {
		return VarScreeninfo{}, ErrClosed
	}
	vinfo, err := fb.dev.VarScreeninfo()
	if err != nil {
		return vinfo, ioctlError("FBIOGET_VSCREENINFO", err)
	}
	fb.vinfo = vinfo
	return vinfo, nil
}

// PutVarScreeninfo submits vinfo to the device and returns the values the
// driver settled on.
//
// The mapping is not resized. To use a different geometry, close and reopen
// the framebuffer.
func (fb *Framebuffer) PutVarScreeninfo(vinfo VarScreeninfo) (VarScreeninfo, error) {
	if fb.mem == nil {
		return VarScreeninfo{}, ErrClosed
	}
	if err := fb.dev.PutVarScreeninfo(&vinfo); err != nil {
		return fb.vinfo, ioctlError("FBIOPUT_VSCREENINFO", err)
	}
	fb.vinfo = vinfo
	return vinfo, nil
}

// Pan moves the visible area to (x, y) of the virtual resolution without
// touching the pixel data.
func (fb *Framebuffer) Pan(x, y uint32) error {
	if fb.mem == nil {
		return ErrClosed
	}
	v := fb.vinfo
	if uint64(x)+uint64(v.Xres) > uint64(v.XresVirtual) || uint64(y)+uint64(v.Yres) > uint64(v.YresVirtual) {
		return fmt.Errorf("%w: (%d, %d) with visible %dx%d in virtual %dx%d",
			ErrPanOutOfRange, x, y, v.Xres, v.Yres, v.XresVirtual, v.YresVirtual)
	}
	v.Xoffset, v.Yoffset = x, y
	if err := fb.dev.PanDisplay(&v); err != nil {
		return ioctlError("FBIOPAN_DISPLAY", err)
	}
	fb.vinfo.Xoffset, fb.vinfo.Yoffset = x, y
	return nil
}

// Close unmaps video memory and closes the device.
func (fb *Framebuffer) Close() error {
	if fb.mem == nil {
		return ErrClosed
	}
	e1 := fb.dev.Munmap(fb.mem)
	fb.mem = nil
	if e2 := fb.dev.Close(); e2 != nil {
		return ioError("close", e2)
	}
	if e1 != nil {
		return ioError("munmap", e1)
	}
	return nil
}
