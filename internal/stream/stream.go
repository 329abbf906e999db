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

// Package stream implements the raw framebuffer stream served by fbctl.
//
// A stream is a multipart/x-mixed-replace HTTP response. The first part
// carries a binary Header, every following part one complete frame of video
// memory, as returned by fbdev.Framebuffer.ReadFrame.
package stream

import (
	"fmt"

	"github.com/Merovius/fbdev"
)

// Version of the stream format.
const Version = 2

const (
	boundary    = "endofsection"
	mediaType   = "multipart/x-mixed-replace"
	partType    = "binary/octet-stream"
	contentType = mediaType + ";boundary=" + boundary
)

// Encoding of the frame parts.
type Encoding uint8

const (
	Raw Encoding = iota
	RLE
)

func (e Encoding) String() string {
	switch e {
	case Raw:
		return "raw"
	case RLE:
		return "rle"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// ParseEncoding parses the name of an encoding. The empty string is Raw.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "raw":
		return Raw, nil
	case "rle":
		return RLE, nil
	}
	return 0, fmt.Errorf("unknown encoding %q", s)
}

// Header describes the frames of a stream. Width is the virtual width of the
// framebuffer, Height the number of lines in a frame.
type Header struct {
	Version      uint8
	BitsPerPixel uint8
	Encoding     Encoding
	_            uint8 // reserved
	Width        uint32
	Height       uint32
	LineLength   uint32
}

// FrameLen returns the size of a decoded frame in bytes.
func (h Header) FrameLen() int {
	return int(h.LineLength) * int(h.Height)
}

// Source is a framebuffer that can be streamed. *fbdev.Framebuffer
// implements it.
type Source interface {
	FixScreeninfo() fbdev.FixScreeninfo
	VarScreeninfo() fbdev.VarScreeninfo
	Len() int
	ReadFrame(dst []byte) error
}

var _ Source = (*fbdev.Framebuffer)(nil)

// headerFor describes the frames of src. Height follows the mapping, not
// the current YresVirtual, which may have changed since src was opened.
func headerFor(src Source, enc Encoding) Header {
	vinfo := src.VarScreeninfo()
	hdr := Header{
		Version:      Version,
		BitsPerPixel: uint8(vinfo.BitsPerPixel),
		Encoding:     enc,
		Width:        vinfo.XresVirtual,
		LineLength:   src.FixScreeninfo().LineLength,
	}
	if hdr.LineLength > 0 {
		hdr.Height = uint32(src.Len() / int(hdr.LineLength))
	}
	return hdr
}
