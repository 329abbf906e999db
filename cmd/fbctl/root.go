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
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/config"
	"github.com/Merovius/fbdev/internal/logging"
)

type terminal interface {
	fbdev.Terminal
	Close() error
}

// app holds the dependencies of all commands, so tests can replace devices
// and the filesystem.
type app struct {
	fs      afero.Fs
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	open    func(path string) (*fbdev.Framebuffer, error)
	openTTY func(path string) (terminal, error)

	cfgPath string
	cfg     config.Values
}

func newRootCmd(a *app) *cobra.Command {
	var device, tty, level string
	root := &cobra.Command{
		Use:           "fbctl",
		Short:         "inspect, control and stream Linux framebuffer devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.fs, a.cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("device") {
				cfg.Device = device
			}
			if flags.Changed("tty") {
				cfg.TTY = tty
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = level
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			a.cfg = cfg
			return logging.Init(a.stderr, cfg.LogLevel, cfg.LogFile)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "", "config file (default $"+config.Env+" or "+config.DefaultPath+")")
	pf.StringVarP(&device, "device", "d", config.Defaults.Device, "framebuffer device")
	pf.StringVar(&tty, "tty", "", "terminal device for console mode changes (default standard input)")
	pf.StringVar(&level, "log-level", config.Defaults.LogLevel, "log level")

	root.AddCommand(
		newInfoCmd(a),
		newModeCmd(a),
		newPanCmd(a),
		newDumpCmd(a),
		newLoadCmd(a),
		newServeCmd(a),
		newPullCmd(a),
		newConfigCmd(a),
	)
	return root
}

// withFramebuffer opens the configured device for the duration of fn.
func (a *app) withFramebuffer(fn func(fb *fbdev.Framebuffer) error) error {
	fb, err := a.open(a.cfg.Device)
	if err != nil {
		return err
	}
	log.Debug().Str("device", a.cfg.Device).Int("len", fb.Len()).Msg("opened framebuffer")
	err = fn(fb)
	if cerr := fb.Close(); err == nil {
		err = cerr
	}
	return err
}
