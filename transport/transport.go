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

// Package transport defines the byte-stream links rpl frames travel over
// and a pump that feeds inbound bytes to a consumer. Concrete links live
// in the uart, i2c, and ws subpackages.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Link is a byte stream carrying rpl frames. Implementations may chunk the
// stream arbitrarily; the parser reassembles frames regardless.
type Link interface {
	io.ReadWriteCloser
}

// Pump reads from link and hands every chunk to sink, in order, until the
// context is cancelled, the link reports EOF (returns nil), or either side
// fails. sink is typically Parser.Push or a wrapper around it; a sink error
// stops the pump.
//
// Cancellation is only observed between reads, so links should be
// configured with a finite read timeout (a timed-out read returning 0
// bytes and no error is treated as idle, not as failure).
func Pump(ctx context.Context, link io.Reader, sink func([]byte) error) error {
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := link.Read(buf)
		if n > 0 {
			if serr := sink(buf[:n]); serr != nil {
				return fmt.Errorf("sink: %w", serr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("link read: %w", err)
		}
	}
}
