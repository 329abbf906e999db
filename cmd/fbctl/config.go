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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config [FILE|-]",
		Short: "write the effective configuration as TOML",
		Long: `write the effective configuration as TOML

The configuration file, defaults and command line flags are merged. Without
FILE, or with -, it is written to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-" {
				return config.Write(cmd.OutOrStdout(), a.cfg)
			}
			if err := config.Save(a.fs, args[0], a.cfg); err != nil {
				return err
			}
			log.Info().Str("path", args[0]).Msg("configuration saved")
			return nil
		},
	}
}
