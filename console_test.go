package fbdev_test

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/fbtest"
)

func TestSetConsoleModeIdempotent(t *testing.T) {
	tty := &fbtest.Terminal{Mode: fbdev.KDText}
	require.NoError(t, fbdev.SetConsoleMode(tty, fbdev.KDGraphics))
	require.NoError(t, fbdev.SetConsoleMode(tty, fbdev.KDGraphics))
	assert.Equal(t, fbdev.KDGraphics, tty.Mode)
	assert.Equal(t, []fbdev.KDMode{fbdev.KDGraphics, fbdev.KDGraphics}, tty.Sets)
}

func TestSetConsoleModeRoundTrip(t *testing.T) {
	tty := &fbtest.Terminal{Mode: fbdev.KDText}
	require.NoError(t, fbdev.SetConsoleMode(tty, fbdev.KDGraphics))
	require.NoError(t, fbdev.SetConsoleMode(tty, fbdev.KDText))
	mode, err := fbdev.ConsoleMode(tty)
	require.NoError(t, err)
	assert.Equal(t, fbdev.KDText, mode)
}

func TestSetConsoleModeErrors(t *testing.T) {
	tty := &fbtest.Terminal{}
	err := fbdev.SetConsoleMode(tty, fbdev.KDMode(2))
	assert.ErrorIs(t, err, fbdev.ErrInvalidMode)
	assert.Empty(t, tty.Sets)

	tty.SetErr = syscall.EPERM
	err = fbdev.SetConsoleMode(tty, fbdev.KDGraphics)
	assert.Equal(t, fbdev.IoctlFailed, fbdev.KindOf(err))
	assert.ErrorIs(t, err, syscall.EPERM)
	assert.Contains(t, err.Error(), "KDSETMODE")

	tty.GetErr = syscall.ENOTTY
	_, err = fbdev.ConsoleMode(tty)
	assert.Equal(t, fbdev.IoctlFailed, fbdev.KindOf(err))
}

func TestSwitchConsoleMode(t *testing.T) {
	tty := &fbtest.Terminal{Mode: fbdev.KDText}
	restore, err := fbdev.SwitchConsoleMode(tty, fbdev.KDGraphics)
	require.NoError(t, err)
	assert.Equal(t, fbdev.KDGraphics, tty.Mode)
	require.NoError(t, restore())
	assert.Equal(t, fbdev.KDText, tty.Mode)

	tty = &fbtest.Terminal{Mode: fbdev.KDGraphics}
	restore, err = fbdev.SwitchConsoleMode(tty, fbdev.KDGraphics)
	require.NoError(t, err)
	require.NoError(t, restore())
	assert.Equal(t, fbdev.KDGraphics, tty.Mode)
}

func TestSwitchConsoleModeFailure(t *testing.T) {
	tty := &fbtest.Terminal{Mode: fbdev.KDText, GetErr: syscall.ENOTTY}
	restore, err := fbdev.SwitchConsoleMode(tty, fbdev.KDGraphics)
	assert.Nil(t, restore)
	assert.ErrorIs(t, err, syscall.ENOTTY)
	assert.Empty(t, tty.Sets)
}

func TestKDModeString(t *testing.T) {
	assert.Equal(t, "text", fbdev.KDText.String())
	assert.Equal(t, "graphics", fbdev.KDGraphics.String())
	assert.Equal(t, "KDMode(0x3)", fbdev.KDMode(3).String())

	for _, m := range []fbdev.KDMode{fbdev.KDText, fbdev.KDGraphics} {
		got, err := fbdev.ParseKDMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := fbdev.ParseKDMode("text0")
	assert.ErrorIs(t, err, fbdev.ErrInvalidMode)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, fbdev.Unknown, fbdev.KindOf(syscall.EIO))
	assert.Equal(t, fbdev.Unknown, fbdev.KindOf(nil))
	assert.Equal(t, "ioctl failed", fbdev.IoctlFailed.String())
	assert.Equal(t, "I/O error", fbdev.IoError.String())

	err := &fbdev.Error{Kind: fbdev.IoError, Op: "mmap", Err: syscall.ENODEV}
	assert.Equal(t, "fbdev: mmap: "+syscall.ENODEV.Error(), err.Error())
	assert.ErrorIs(t, err, syscall.ENODEV)

	err = &fbdev.Error{Kind: fbdev.IoError, Op: "open", Err: fbdev.ErrNotSupported}
	assert.Equal(t, "fbdev: open: not supported", err.Error())
}
