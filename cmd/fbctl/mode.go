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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
)

func newModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mode [text|graphics]",
		Short: "print or set the console mode of the terminal",
		Long: `print or set the console mode of the terminal

In graphics mode the console stops drawing into the framebuffer. Switch back
to text mode when done, or the console stays blank.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"text", "graphics"},
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			tty, err := a.openTTY(a.cfg.TTY)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := tty.Close(); err == nil {
					err = cerr
				}
			}()

			if len(args) == 0 {
				mode, err := fbdev.ConsoleMode(tty)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.stdout, mode)
				return err
			}
			mode, err := fbdev.ParseKDMode(args[0])
			if err != nil {
				return err
			}
			log.Debug().Stringer("mode", mode).Str("tty", a.cfg.TTY).Msg("setting console mode")
			return fbdev.SetConsoleMode(tty, mode)
		},
	}
}
