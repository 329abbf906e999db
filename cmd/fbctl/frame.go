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
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE|-",
		Short: "write the contents of video memory to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				buf := make([]byte, fb.Len())
				if err := fb.ReadFrame(buf); err != nil {
					return err
				}
				if args[0] == "-" {
					_, err := a.stdout.Write(buf)
					return err
				}
				if err := afero.WriteFile(a.fs, args[0], buf, 0o644); err != nil {
					return fmt.Errorf("writing frame: %w", err)
				}
				log.Info().Str("file", args[0]).Int("bytes", len(buf)).Msg("dumped frame")
				return nil
			})
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE|-",
		Short: "copy a file into video memory",
		Long: `copy a file into video memory

The file must have exactly the size of the mapped video memory, as printed by
"fbctl info".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				buf []byte
				err error
			)
			if args[0] == "-" {
				buf, err = io.ReadAll(a.stdin)
			} else {
				buf, err = afero.ReadFile(a.fs, args[0])
			}
			if err != nil {
				return fmt.Errorf("reading frame: %w", err)
			}
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				return fb.WriteFrame(buf)
			})
		},
	}
}
