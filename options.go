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

package rpl

// Option is a functional option for configuring a Parser.
type Option func(*Parser)

// WithRingCapacity sets the parser's ring buffer capacity in bytes. The
// value is rounded up to a power of two and never below twice the largest
// registered frame, so a whole frame always fits with room to resync.
func WithRingCapacity(n int) Option {
	return func(p *Parser) {
		p.ringCap = n
	}
}
