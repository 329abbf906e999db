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
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Merovius/fbdev"
	"github.com/Merovius/fbdev/internal/stream"
)

func newInfoCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "print screen information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withFramebuffer(func(fb *fbdev.Framebuffer) error {
				if asJSON {
					enc := json.NewEncoder(a.stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(stream.Info{
						Name: fb.FixScreeninfo().Name(),
						Len:  fb.Len(),
						Fix:  fb.FixScreeninfo(),
						Var:  fb.VarScreeninfo(),
					})
				}
				return printInfo(a.stdout, fb)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printInfo(w io.Writer, fb *fbdev.Framebuffer) error {
	f, v := fb.FixScreeninfo(), fb.VarScreeninfo()
	bf := func(b fbdev.Bitfield) string {
		return fmt.Sprintf("%d/%d", b.Length, b.Offset)
	}
	_, err := fmt.Fprintf(w, `name:           %s
visible:        %dx%d
virtual:        %dx%d
offset:         %d,%d
bits per pixel: %d
line length:    %d
mapped:         %d bytes
rgba:           %s,%s,%s,%s
panstep:        %d,%d
`,
		f.Name(),
		v.Xres, v.Yres,
		v.XresVirtual, v.YresVirtual,
		v.Xoffset, v.Yoffset,
		v.BitsPerPixel,
		f.LineLength,
		fb.Len(),
		bf(v.Red), bf(v.Green), bf(v.Blue), bf(v.Transp),
		f.Xpanstep, f.Ypanstep,
	)
	return err
}
