// rpl
// Copyright (c) 2025 The RPL Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of rpl.
//
// rpl is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// rpl is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with rpl; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rplcomm.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
device = "/dev/ttyUSB3"
baud = 921600
interval_ms = 250
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Device)
	assert.Equal(t, 921600, cfg.Baud)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval())
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `device = "ws://bridge.local:8080/link"`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://bridge.local:8080/link", cfg.Device)
	assert.Equal(t, DefaultConfig().Baud, cfg.Baud)
	assert.Equal(t, DefaultConfig().IntervalMS, cfg.IntervalMS)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `device = `))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `baud = -9600`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `device = ""`))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `interval_ms = 0`))
	require.Error(t, err)
}
