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

package stream

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxFrameLen is the largest frame a Client accepts.
const MaxFrameLen = 1 << 30

// DialOptions configure Dial.
type DialOptions struct {
	// Encoding requested from the server.
	Encoding Encoding
	// Frames limits the number of frames; zero streams until closed.
	Frames int
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client reads frames from a stream.
type Client struct {
	r      *multipart.Reader
	closer io.Closer
	hdr    Header
}

// Dial connects to the stream served at addr, which is either host:port or
// a http URL.
func Dial(ctx context.Context, addr string, opts DialOptions) (*Client, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/raw"
	q := u.Query()
	q.Set("encoding", opts.Encoding.String())
	if opts.Frames > 0 {
		q.Set("frames", strconv.Itoa(opts.Frames))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	c := &Client{closer: resp.Body}
	if err = c.readHdr(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if c.hdr.Encoding != opts.Encoding {
		resp.Body.Close()
		return nil, fmt.Errorf("server sent encoding %v, want %v", c.hdr.Encoding, opts.Encoding)
	}
	return c, nil
}

func (c *Client) readHdr(resp *http.Response) error {
	mt, parms, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return err
	}
	if mt != mediaType {
		return fmt.Errorf("unknown media type %q", mt)
	}
	if parms["boundary"] == "" {
		return fmt.Errorf("no boundary in media type %q", resp.Header.Get("Content-Type"))
	}
	c.r = multipart.NewReader(resp.Body, parms["boundary"])

	part, err := c.r.NextPart()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	defer part.Close()
	if ct := part.Header.Get("Content-Type"); ct != partType {
		return fmt.Errorf("unknown Content-Type %q for part", ct)
	}

	var hdr Header
	if err := binary.Read(part, binary.BigEndian, &hdr); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if hdr.Version != Version {
		return fmt.Errorf("incompatible version %d", hdr.Version)
	}
	if hdr.BitsPerPixel == 0 || hdr.BitsPerPixel%8 != 0 {
		return fmt.Errorf("unsupported bits per pixel %d", hdr.BitsPerPixel)
	}
	if n := uint64(hdr.LineLength) * uint64(hdr.Height); n == 0 || n > MaxFrameLen {
		return fmt.Errorf("invalid frame size (%d lines of %d bytes)", hdr.Height, hdr.LineLength)
	}
	c.hdr = hdr
	return nil
}

// Header returns the header sent by the server.
func (c *Client) Header() Header {
	return c.hdr
}

// FrameLen returns the size of a frame in bytes.
func (c *Client) FrameLen() int {
	return c.hdr.FrameLen()
}

// Next reads the next frame into dst, which must be FrameLen() bytes long. It
// returns io.EOF at the end of the stream.
func (c *Client) Next(dst []byte) error {
	if len(dst) != c.FrameLen() {
		return fmt.Errorf("frame buffer has %d bytes, want %d", len(dst), c.FrameLen())
	}
	part, err := c.r.NextPart()
	if err != nil {
		return err
	}
	defer part.Close()
	if ct := part.Header.Get("Content-Type"); ct != partType {
		return fmt.Errorf("unknown Content-Type %q for part", ct)
	}
	var r io.Reader = part
	if c.hdr.Encoding == RLE {
		r = newReader(part)
	}
	if _, err = io.ReadFull(r, dst); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("reading frame: %w", err)
	}
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.closer.Close()
}
