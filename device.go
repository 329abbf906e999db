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

// Device is the kernel facing side of a framebuffer. Every method performs
// exactly one system call and returns its error unclassified.
//
// OpenDevice returns the implementation backed by a device file. Tests and
// alternative backends can pass their own implementation to New.
type Device interface {
	// VarScreeninfo issues FBIOGET_VSCREENINFO.
	VarScreeninfo() (VarScreeninfo, error)
	// PutVarScreeninfo issues FBIOPUT_VSCREENINFO. The driver may adjust
	// the values, which are written back into v.
	PutVarScreeninfo(v *VarScreeninfo) error
	// FixScreeninfo issues FBIOGET_FSCREENINFO.
	FixScreeninfo() (FixScreeninfo, error)
	// PanDisplay issues FBIOPAN_DISPLAY. Only the offsets and vmode of v are
	// used by the driver.
	PanDisplay(v *VarScreeninfo) error
	// Mmap maps length bytes of video memory, starting at offset zero,
	// shared and read-write.
	Mmap(length int) ([]byte, error)
	// Munmap releases a mapping returned by Mmap.
	Munmap(b []byte) error
	// Close closes the device.
	Close() error
}

// <linux/fb.h> ioctls. 0x46 is 'F'.
const (
	fbioGetVScreenInfo = 0x4600
	fbioPutVScreenInfo = 0x4601
	fbioGetFScreenInfo = 0x4602
	fbioPanDisplay     = 0x4606
)

// <linux/kd.h> ioctls. 0x4B is 'K'.
const (
	kdSetMode = 0x4B3A
	kdGetMode = 0x4B3B
)
