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
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

type fileDevice struct {
	fd uintptr
}

// OpenDevice opens the framebuffer device file at path for reading and
// writing.
func OpenDevice(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, ioError("open", fmt.Errorf("%s: %w", path, err))
	}
	if int(uintptr(fd)) != fd {
		unix.Close(fd)
		return nil, ioError("open", errors.New("fd overflows"))
	}
	return &fileDevice{fd: uintptr(fd)}, nil
}

func (d *fileDevice) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, d.fd, req, uintptr(arg))
	if eno != 0 {
		return eno
	}
	return nil
}

func (d *fileDevice) VarScreeninfo() (VarScreeninfo, error) {
	var vinfo VarScreeninfo
	err := d.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&vinfo))
	return vinfo, err
}

func (d *fileDevice) PutVarScreeninfo(v *VarScreeninfo) error {
	return d.ioctl(fbioPutVScreenInfo, unsafe.Pointer(v))
}

func (d *fileDevice) FixScreeninfo() (FixScreeninfo, error) {
	var finfo FixScreeninfo
	err := d.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&finfo))
	return finfo, err
}

func (d *fileDevice) PanDisplay(v *VarScreeninfo) error {
	return d.ioctl(fbioPanDisplay, unsafe.Pointer(v))
}

func (d *fileDevice) Mmap(length int) ([]byte, error) {
	return unix.Mmap(int(d.fd), 0, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func (d *fileDevice) Munmap(b []byte) error {
	return unix.Munmap(b)
}

func (d *fileDevice) Close() error {
	return unix.Close(int(d.fd))
}
