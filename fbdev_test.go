package fbdev_test

import (
	"bytes"
	"errors"
	"syscall"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/fbtest"
)

func TestScreeninfoLayout(t *testing.T) {
	assert.EqualValues(t, 160, unsafe.Sizeof(fbdev.VarScreeninfo{}))
	if unsafe.Sizeof(uintptr(0)) == 8 {
		assert.EqualValues(t, 80, unsafe.Sizeof(fbdev.FixScreeninfo{}))
	} else {
		assert.EqualValues(t, 68, unsafe.Sizeof(fbdev.FixScreeninfo{}))
	}
}

func TestNew(t *testing.T) {
	dev := fbtest.NewDevice(1920, 1080, 32, 7680)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	defer fb.Close()

	assert.Equal(t, []string{"VarScreeninfo", "FixScreeninfo", "Mmap"}, dev.Calls)
	assert.Equal(t, dev.Var, fb.VarScreeninfo())
	assert.Equal(t, dev.Fix, fb.FixScreeninfo())
	assert.Equal(t, "fbtest", fb.FixScreeninfo().Name())
	assert.Equal(t, 7680*1080, fb.Len())
	assert.Equal(t, 8294400, len(fb.Frame()))
}

func TestLenUsesVirtualResolution(t *testing.T) {
	tcs := []struct {
		name                   string
		lineLength, yres, yvir uint32
	}{
		{"padded", 2048, 480, 480},
		{"double buffered", 1280 * 2, 720, 1440},
		{"16bpp", 800 * 2, 600, 1200},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dev := fbtest.NewDevice(640, tc.yres, 32, tc.lineLength)
			dev.Var.YresVirtual = tc.yvir
			fb, err := fbdev.New(dev)
			require.NoError(t, err)
			defer fb.Close()
			assert.Equal(t, int(tc.lineLength*tc.yvir), fb.Len())
		})
	}
}

func TestWriteFrameScenario(t *testing.T) {
	fb, err := fbdev.New(fbtest.NewDevice(1920, 1080, 32, 7680))
	require.NoError(t, err)
	defer fb.Close()

	require.Equal(t, 8294400, fb.Len())
	frame := bytes.Repeat([]byte{0x12, 0x34, 0x56, 0x78}, 1920*1080)
	require.NoError(t, fb.WriteFrame(frame))

	err = fb.WriteFrame(frame[:8294399])
	assert.ErrorIs(t, err, fbdev.ErrFrameLength)
	assert.True(t, bytes.Equal(frame, fb.Frame()), "rejected write modified video memory")
}

func TestFrameRoundTrip(t *testing.T) {
	dev := fbtest.NewDevice(4, 3, 32, 20)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	defer fb.Close()

	frame := make([]byte, fb.Len())
	for i := range frame {
		frame[i] = byte(i)
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, fb.WriteFrame(frame))
		got := make([]byte, fb.Len())
		require.NoError(t, fb.ReadFrame(got))
		assert.Equal(t, frame, got)
		assert.Equal(t, frame, dev.Mem)
	}
}

func TestReadFrameLength(t *testing.T) {
	fb, err := fbdev.New(fbtest.NewDevice(4, 3, 32, 16))
	require.NoError(t, err)
	defer fb.Close()

	assert.ErrorIs(t, fb.ReadFrame(make([]byte, fb.Len()-1)), fbdev.ErrFrameLength)
	assert.ErrorIs(t, fb.ReadFrame(make([]byte, fb.Len()+1)), fbdev.ErrFrameLength)
}

func TestOffset(t *testing.T) {
	fb, err := fbdev.New(fbtest.NewDevice(100, 50, 24, 304))
	require.NoError(t, err)
	defer fb.Close()

	assert.Equal(t, 0, fb.Offset(0, 0))
	assert.Equal(t, 3, fb.Offset(1, 0))
	assert.Equal(t, 304, fb.Offset(0, 1))
	assert.Equal(t, 2*304+7*3, fb.Offset(7, 2))
}

func TestNewFailures(t *testing.T) {
	errBoom := errors.New("boom")
	tcs := []struct {
		name   string
		modify func(d *fbtest.Device)
		kind   fbdev.Kind
		op     string
		cause  error
	}{
		{"var info", func(d *fbtest.Device) { d.VarErr = syscall.EINVAL }, fbdev.IoctlFailed, "FBIOGET_VSCREENINFO", syscall.EINVAL},
		{"fix info", func(d *fbtest.Device) { d.FixErr = syscall.ENOTTY }, fbdev.IoctlFailed, "FBIOGET_FSCREENINFO", syscall.ENOTTY},
		{"mmap", func(d *fbtest.Device) { d.MmapErr = errBoom }, fbdev.IoError, "mmap", errBoom},
		{"zero line length", func(d *fbtest.Device) { d.Fix.LineLength = 0 }, fbdev.IoError, "mmap", nil},
		{"zero virtual height", func(d *fbtest.Device) { d.Var.YresVirtual = 0 }, fbdev.IoError, "mmap", nil},
		{"short mapping", func(d *fbtest.Device) { d.ShortMap = 1 }, fbdev.IoError, "mmap", nil},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			dev := fbtest.NewDevice(8, 8, 32, 32)
			tc.modify(dev)
			fb, err := fbdev.New(dev)
			require.Error(t, err)
			assert.Nil(t, fb)
			assert.Equal(t, tc.kind, fbdev.KindOf(err))
			var fe *fbdev.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.op, fe.Op)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
			assert.True(t, dev.Closed, "device not closed")
			assert.False(t, dev.Mapped(), "memory left mapped")
		})
	}
}

func TestNewQueriesVarBeforeFix(t *testing.T) {
	dev := fbtest.NewDevice(8, 8, 32, 32)
	dev.VarErr = syscall.EIO
	_, err := fbdev.New(dev)
	require.Error(t, err)
	assert.Equal(t, []string{"VarScreeninfo", "Close"}, dev.Calls)
}

func TestClose(t *testing.T) {
	dev := fbtest.NewDevice(8, 8, 32, 32)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)

	require.NoError(t, fb.Close())
	assert.Equal(t, []string{"VarScreeninfo", "FixScreeninfo", "Mmap", "Munmap", "Close"}, dev.Calls)
	assert.False(t, dev.Mapped())
	assert.True(t, dev.Closed)

	assert.ErrorIs(t, fb.Close(), fbdev.ErrClosed)
	assert.ErrorIs(t, fb.WriteFrame(make([]byte, 8*32)), fbdev.ErrClosed)
	assert.ErrorIs(t, fb.ReadFrame(make([]byte, 8*32)), fbdev.ErrClosed)
	assert.ErrorIs(t, fb.Pan(0, 0), fbdev.ErrClosed)
	_, err = fb.QueryVarScreeninfo()
	assert.ErrorIs(t, err, fbdev.ErrClosed)
	_, err = fb.PutVarScreeninfo(fb.VarScreeninfo())
	assert.ErrorIs(t, err, fbdev.ErrClosed)
	assert.Equal(t, 0, fb.Len())
}

func TestCloseErrors(t *testing.T) {
	dev := fbtest.NewDevice(8, 8, 32, 32)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	dev.MunmapErr = syscall.EINVAL
	err = fb.Close()
	assert.Equal(t, fbdev.IoError, fbdev.KindOf(err))
	assert.ErrorIs(t, err, syscall.EINVAL)
	assert.True(t, dev.Closed, "device not closed after munmap failure")
}

func TestPan(t *testing.T) {
	dev := fbtest.NewDevice(640, 480, 32, 640*4)
	dev.Var.YresVirtual = 960
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	defer fb.Close()

	require.NoError(t, fb.Pan(0, 480))
	require.Len(t, dev.Pans, 1)
	assert.EqualValues(t, 480, dev.Pans[0].Yoffset)
	assert.EqualValues(t, 480, fb.VarScreeninfo().Yoffset)
	assert.Equal(t, 480, fb.VarScreeninfo().Visible().Min.Y)

	assert.ErrorIs(t, fb.Pan(0, 481), fbdev.ErrPanOutOfRange)
	assert.ErrorIs(t, fb.Pan(1, 0), fbdev.ErrPanOutOfRange)
	assert.Len(t, dev.Pans, 1)

	dev.PanErr = syscall.EINVAL
	err = fb.Pan(0, 0)
	assert.Equal(t, fbdev.IoctlFailed, fbdev.KindOf(err))
	assert.EqualValues(t, 480, fb.VarScreeninfo().Yoffset, "failed pan changed offsets")
}

func TestPutVarScreeninfo(t *testing.T) {
	dev := fbtest.NewDevice(640, 480, 32, 640*4)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	defer fb.Close()

	v := fb.VarScreeninfo()
	v.Xres, v.Yres = 320, 240
	v.XresVirtual, v.YresVirtual = 0, 0
	got, err := fb.PutVarScreeninfo(v)
	require.NoError(t, err)
	assert.EqualValues(t, 320, got.XresVirtual)
	assert.EqualValues(t, 240, got.YresVirtual)
	assert.Equal(t, got, fb.VarScreeninfo())
	assert.Equal(t, 640*4*480, fb.Len(), "mapping was resized")

	dev.PutErr = syscall.EINVAL
	_, err = fb.PutVarScreeninfo(v)
	assert.Equal(t, fbdev.IoctlFailed, fbdev.KindOf(err))
	assert.Equal(t, got, fb.VarScreeninfo())
}

func TestQueryVarScreeninfo(t *testing.T) {
	dev := fbtest.NewDevice(640, 480, 32, 640*4)
	fb, err := fbdev.New(dev)
	require.NoError(t, err)
	defer fb.Close()

	dev.Var.Yoffset = 7
	v, err := fb.QueryVarScreeninfo()
	require.NoError(t, err)
	assert.EqualValues(t, 7, v.Yoffset)
	assert.EqualValues(t, 7, fb.VarScreeninfo().Yoffset)

	dev.VarErr = syscall.EIO
	_, err = fb.QueryVarScreeninfo()
	assert.Equal(t, fbdev.IoctlFailed, fbdev.KindOf(err))
	assert.ErrorIs(t, err, syscall.EIO)
}

func TestVarScreeninfoHelpers(t *testing.T) {
	v := fbdev.VarScreeninfo{Xres: 10, Yres: 5, XresVirtual: 20, YresVirtual: 10, Xoffset: 3, Yoffset: 4, BitsPerPixel: 15}
	assert.Equal(t, 2, v.BytesPerPixel())
	assert.Equal(t, 20, v.Virtual().Dx())
	assert.Equal(t, 10, v.Virtual().Dy())
	vis := v.Visible()
	assert.Equal(t, 3, vis.Min.X)
	assert.Equal(t, 4, vis.Min.Y)
	assert.Equal(t, 13, vis.Max.X)
	assert.Equal(t, 9, vis.Max.Y)
	assert.True(t, vis.In(v.Virtual()))
}
