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

// Command fbctl inspects, controls and streams Linux framebuffer devices.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/Merovius/fbdev"
)

func main() {
	a := &app{
		fs:      afero.NewOsFs(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		open:    fbdev.Open,
		openTTY: openTTY,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fbctl:", err)
		os.Exit(1)
	}
}

// openTTY opens the terminal at path, or uses standard input if path is
// empty.
func openTTY(path string) (terminal, error) {
	if path == "" {
		return fbdev.NewTTY(0), nil
	}
	tty, err := fbdev.OpenTTY(path)
	if err != nil {
		return nil, err
	}
	return tty, nil
}
