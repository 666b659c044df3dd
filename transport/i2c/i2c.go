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

// Package i2c provides a Link for frame streams bridged through an I2C
// stream-gateway peripheral, a common arrangement when the MCU's UARTs
// are spoken for. The gateway buffers the frame stream and serves it in
// count-prefixed chunks: every read transaction returns one length byte
// followed by that many data bytes; writes are forwarded verbatim.
package i2c

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the gateway's conventional bus address.
const DefaultAddr = 0x42

// Transport is an I2C stream-gateway Link.
type Transport struct {
	bus     i2c.BusCloser
	dev     *i2c.Dev
	busName string
}

// New opens an I2C bus by name ("" selects the first available) and
// attaches to the gateway at addr.
func New(busName string, addr uint16) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", busName, err)
	}

	return &Transport{
		bus:     bus,
		dev:     &i2c.Dev{Addr: addr, Bus: bus},
		busName: busName,
	}, nil
}

// Read performs one gateway transaction and copies out the returned
// chunk. It returns 0 without error when the gateway has nothing buffered.
func (t *Transport) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	chunk := len(p)
	if chunk > 255 {
		chunk = 255
	}
	buf := make([]byte, chunk+1)
	if err := t.dev.Tx(nil, buf); err != nil {
		return 0, fmt.Errorf("i2c read: %w", err)
	}
	n := int(buf[0])
	if n > chunk {
		n = chunk
	}
	copy(p, buf[1:1+n])
	return n, nil
}

// Write forwards p to the gateway's outbound stream.
func (t *Transport) Write(p []byte) (int, error) {
	if err := t.dev.Tx(p, nil); err != nil {
		return 0, fmt.Errorf("i2c write: %w", err)
	}
	return len(p), nil
}

// Close releases the bus.
func (t *Transport) Close() error {
	if err := t.bus.Close(); err != nil {
		return fmt.Errorf("i2c close: %w", err)
	}
	return nil
}
