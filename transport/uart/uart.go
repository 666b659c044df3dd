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

// Package uart provides the serial port link, the transport the frame
// format was designed for.
package uart

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Default settings for embedded links.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config holds serial port settings. The zero value selects the defaults.
type Config struct {
	// BaudRate in bits per second. Defaults to DefaultBaudRate.
	BaudRate int

	// ReadTimeout bounds a single Read call so transport.Pump can observe
	// cancellation. Defaults to DefaultReadTimeout; zero means default,
	// negative means block forever.
	ReadTimeout time.Duration
}

// Port is a serial port Link. 8 data bits, no parity, one stop bit.
type Port struct {
	port serial.Port
	name string
}

// Open opens a serial device such as /dev/ttyACM0 or COM3. A nil cfg uses
// the defaults.
func Open(name string, cfg *Config) (*Port, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	baud := cfg.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}

	timeout := cfg.ReadTimeout
	if timeout == 0 {
		timeout = DefaultReadTimeout
	}
	if timeout > 0 {
		if err := port.SetReadTimeout(timeout); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	return &Port{port: port, name: name}, nil
}

// Name returns the device path the port was opened with.
func (p *Port) Name() string {
	return p.name
}

// Read reads available bytes, returning 0 without error on timeout.
func (p *Port) Read(buf []byte) (int, error) {
	n, err := p.port.Read(buf)
	if err != nil {
		return n, fmt.Errorf("serial read: %w", err)
	}
	return n, nil
}

// Write writes buf to the port.
func (p *Port) Write(buf []byte) (int, error) {
	n, err := p.port.Write(buf)
	if err != nil {
		return n, fmt.Errorf("serial write: %w", err)
	}
	return n, nil
}

// Close closes the port.
func (p *Port) Close() error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("serial close: %w", err)
	}
	return nil
}
