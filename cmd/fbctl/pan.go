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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
)

func newPanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pan X Y",
		Short: "move the visible area within the virtual resolution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var xy [2]uint32
			for i, s := range args {
				n, err := strconv.ParseUint(s, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid offset %q", s)
				}
				xy[i] = uint32(n)
			}
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				return fb.Pan(xy[0], xy[1])
			})
		},
	}
}
