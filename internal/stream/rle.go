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
	"errors"
	"io"
)

// The RLE encoding stores a frame as (count, value) byte pairs with counts in
// [1, 255]. Runs never span Write calls.

type rleWriter struct {
	w   io.Writer
	buf []byte
}

func newWriter(w io.Writer) *rleWriter {
	return &rleWriter{w: w}
}

func (w *rleWriter) Write(p []byte) (n int, err error) {
	w.buf = w.buf[:0]
	for i := 0; i < len(p); {
		c, j := p[i], i+1
		for j < len(p) && p[j] == c && j-i < 255 {
			j++
		}
		w.buf = append(w.buf, byte(j-i), c)
		i = j
	}
	if _, err := w.w.Write(w.buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

var errZeroRun = errors.New("rle: zero length run")

type rleReader struct {
	r     io.Reader
	pair  [2]byte
	run   int
	value byte
}

func newReader(r io.Reader) *rleReader {
	return &rleReader{r: r}
}

func (r *rleReader) Read(p []byte) (n int, err error) {
	for n < len(p) {
		if r.run == 0 {
			if n > 0 {
				// Don't block on the next pair if we have something to return.
				return n, nil
			}
			if _, err := io.ReadFull(r.r, r.pair[:]); err != nil {
				return n, err
			}
			if r.pair[0] == 0 {
				return n, errZeroRun
			}
			r.run, r.value = int(r.pair[0]), r.pair[1]
		}
		m := r.run
		if m > len(p)-n {
			m = len(p) - n
		}
		for i := n; i < n+m; i++ {
			p[i] = r.value
		}
		n += m
		r.run -= m
	}
	return n, nil
}
