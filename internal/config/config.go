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

// Package config loads the configuration of fbctl.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Env names the environment variable holding the config file path.
const Env = "FBCTL_CONFIG"

// DefaultPath is used when neither the flag nor Env are set.
const DefaultPath = "/etc/fbctl.toml"

type Values struct {
	Device   string `toml:"device" validate:"required"`
	TTY      string `toml:"tty"`
	LogLevel string `toml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFile  string `toml:"log_file,omitempty"`
	Serve    Serve  `toml:"serve"`
}

type Serve struct {
	Listen   string  `toml:"listen" validate:"required,hostname_port"`
	FPS      float64 `toml:"fps" validate:"gte=0"`
	Encoding string  `toml:"encoding" validate:"oneof=raw rle"` // served by default, requested by pull
}

var Defaults = Values{
	Device:   "/dev/fb0",
	LogLevel: "info",
	Serve: Serve{
		Listen:   ":1234",
		FPS:      10,
		Encoding: "raw",
	},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the config file at path on fsys on top of Defaults. If path is
// empty, the file named by Env or DefaultPath is used, and a missing file is
// not an error.
func Load(fsys afero.Fs, path string) (Values, error) {
	vals := Defaults
	explicit := path != ""
	if !explicit {
		path = os.Getenv(Env)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return vals, nil
	}
	if err != nil {
		return vals, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &vals); err != nil {
		return vals, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := Validate(vals); err != nil {
		return vals, fmt.Errorf("config %s: %w", path, err)
	}
	return vals, nil
}

// Validate checks vals for invalid settings.
func Validate(vals Values) error {
	return validate.Struct(vals)
}

// Write encodes vals as TOML to w.
func Write(w io.Writer, vals Values) error {
	if err := toml.NewEncoder(w).Encode(vals); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Save writes vals as TOML to path on fsys.
func Save(fsys afero.Fs, path string, vals Values) error {
	data, err := toml.Marshal(vals)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
