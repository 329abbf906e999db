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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/stream"
)

func newPullCmd(a *app) *cobra.Command {
	var (
		frames   int
		encoding string
		graphics bool
	)
	cmd := &cobra.Command{
		Use:   "pull ADDR",
		Short: "mirror the framebuffer served by another fbctl into the local one",
		Long: `mirror the framebuffer served by another fbctl into the local one

Both framebuffers must have the same geometry. With --graphics, the terminal
is switched to graphics mode while mirroring and restored afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("encoding") {
				encoding = a.cfg.Serve.Encoding
			}
			enc, err := stream.ParseEncoding(encoding)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			opts := stream.DialOptions{Encoding: enc, Frames: frames}
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				if !graphics {
					return pull(ctx, fb, args[0], opts)
				}
				return a.withGraphics(func() error {
					return pull(ctx, fb, args[0], opts)
				})
			})
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "number of frames to copy, 0 until interrupted")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "stream encoding, raw or rle (default from config)")
	cmd.Flags().BoolVarP(&graphics, "graphics", "g", false, "switch the terminal to graphics mode while pulling")
	return cmd
}

// withGraphics runs fn with the configured terminal in graphics mode.
func (a *app) withGraphics(fn func() error) (err error) {
	tty, err := a.openTTY(a.cfg.TTY)
	if err != nil {
		return err
	}
	defer tty.Close()
	restore, err := fbdev.SwitchConsoleMode(tty, fbdev.KDGraphics)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			log.Error().Err(rerr).Msg("restoring console mode")
			if err == nil {
				err = rerr
			}
		}
	}()
	return fn()
}

func pull(ctx context.Context, fb *fbdev.Framebuffer, addr string, opts stream.DialOptions) error {
	c, err := stream.Dial(ctx, addr, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	hdr := c.Header()
	log.Info().Str("addr", addr).Interface("header", hdr).Msg("connected")
	if vinfo := fb.VarScreeninfo(); uint32(hdr.BitsPerPixel) != vinfo.BitsPerPixel {
		return fmt.Errorf("remote has %d bits per pixel, local %d", hdr.BitsPerPixel, vinfo.BitsPerPixel)
	}
	if c.FrameLen() != fb.Len() {
		return fmt.Errorf("remote frames have %d bytes, local framebuffer %d", c.FrameLen(), fb.Len())
	}

	buf := make([]byte, c.FrameLen())
	for n := 0; ; n++ {
		if err := c.Next(buf); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				log.Info().Int("frames", n).Msg("stream ended")
				return nil
			}
			return err
		}
		if err := fb.WriteFrame(buf); err != nil {
			return err
		}
	}
}
