package stream

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

func TestRLE(t *testing.T) {
	var data []byte
	rnd := rand.New(rand.NewSource(0))
	for i := 0; i < 10; i++ {
		c := byte(rnd.Intn(256))
		l := rnd.Intn(600)
		n := len(data)
		data = append(data, make([]byte, l)...)
		for j := n; j < len(data); j++ {
			data[j] = c
		}
	}

	buf := new(bytes.Buffer)
	r, w := newReader(buf), newWriter(buf)
	n, err := w.Write(data)
	if err != nil || n < len(data) {
		t.Fatalf("Write() = %d, %v, want %d, <nil>", n, err, len(data))
	}
	got := make([]byte, len(data)+1)
	n, err = io.ReadFull(r, got)
	if n != len(data) || err != io.ErrUnexpectedEOF {
		t.Errorf("Read() = %d, %v, want %d, %v", n, err, len(data), io.ErrUnexpectedEOF)
	}
	got = got[:len(got)-1]
	if !bytes.Equal(got, data) {
		t.Fatalf("Read() = %x\nWant %x", got, data)
	}
}

func TestRLEMaxRun(t *testing.T) {
	buf := new(bytes.Buffer)
	if _, err := newWriter(buf).Write(make([]byte, 256)); err != nil {
		t.Fatal(err)
	}
	if want := []byte{255, 0, 1, 0}; !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("encoded = %v, want %v", buf.Bytes(), want)
	}
}

func TestRLECorrupt(t *testing.T) {
	tcs := []struct {
		name string
		in   []byte
		want error
	}{
		{"zero run", []byte{0, 1}, errZeroRun},
		{"truncated pair", []byte{3, 1, 2}, io.ErrUnexpectedEOF},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := io.ReadAll(newReader(bytes.NewReader(tc.in)))
			if err != tc.want {
				t.Errorf("ReadAll() = %v, want %v", err, tc.want)
			}
		})
	}
}
