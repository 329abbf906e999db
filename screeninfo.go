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
	"bytes"
	"image"
)

// Bitfield describes where one color channel lives inside a pixel value.
// Offsets are counted from the least significant bit.
type Bitfield struct {
	Offset   uint32 // beginning of bitfield
	Length   uint32 // length of bitfield
	MsbRight uint32 // != 0: most significant bit is right
}

// VarScreeninfo mirrors struct fb_var_screeninfo from <linux/fb.h>.
//
// It describes the current video mode and can be changed with
// PutVarScreeninfo and Pan.
type VarScreeninfo struct {
	Xres         uint32 // visible resolution
	Yres         uint32
	XresVirtual  uint32 // virtual resolution
	YresVirtual  uint32
	Xoffset      uint32 // offset from virtual to visible
	Yoffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32 // 0 = color, 1 = grayscale, >1 = FOURCC

	Red    Bitfield
	Green  Bitfield
	Blue   Bitfield
	Transp Bitfield

	Nonstd      uint32 // != 0 non standard pixel format
	Activate    uint32
	Height      uint32 // height of picture in mm
	Width       uint32 // width of picture in mm
	AccelFlags  uint32 // obsolete
	Pixclock    uint32 // pixel clock in ps
	LeftMargin  uint32
	RightMargin uint32
	UpperMargin uint32
	LowerMargin uint32
	HsyncLen    uint32
	VsyncLen    uint32
	Sync        uint32
	Vmode       uint32
	Rotate      uint32 // angle we rotate counter clockwise
	Colorspace  uint32 // colorspace for FOURCC-based modes
	Reserved    [4]uint32
}

// BytesPerPixel returns the size of a single pixel in bytes.
func (v VarScreeninfo) BytesPerPixel() int {
	return int(v.BitsPerPixel+7) / 8
}

// Virtual returns the full addressable area of the framebuffer.
func (v VarScreeninfo) Virtual() image.Rectangle {
	return image.Rect(0, 0, int(v.XresVirtual), int(v.YresVirtual))
}

// Visible returns the currently displayed part of the virtual area.
func (v VarScreeninfo) Visible() image.Rectangle {
	return image.Rect(0, 0, int(v.Xres), int(v.Yres)).Add(image.Pt(int(v.Xoffset), int(v.Yoffset)))
}

// FixScreeninfo mirrors struct fb_fix_screeninfo from <linux/fb.h>.
//
// Older kernel headers declare three reserved words instead of Capabilities
// and two reserved words. Both layouts have the same size, so the newer one is
// used for all kernels.
type FixScreeninfo struct {
	ID           [16]byte // identification string eg "TT Builtin"
	SmemStart    uintptr  // start of frame buffer mem (physical address)
	SmemLen      uint32   // length of frame buffer mem
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	Xpanstep     uint16 // zero if no hardware panning
	Ypanstep     uint16
	Ywrapstep    uint16
	LineLength   uint32 // length of a line in bytes
	MmioStart    uintptr
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Name returns the identification string of the driver.
func (f FixScreeninfo) Name() string {
	if i := bytes.IndexByte(f.ID[:], 0); i >= 0 {
		return string(f.ID[:i])
	}
	return string(f.ID[:])
}
