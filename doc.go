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

/*
Package rpl implements a binary frame codec for embedded and host serial
links carrying a fixed set of packet types.

Each packet type has a 16-bit command id and a fixed little-endian byte
layout. The serializer turns packets into self-delimited, CRC-protected
frames; the parser consumes an arbitrarily chunked inbound byte stream,
recovers whole frames in the presence of noise and fragmentation, and
deposits the most recent payload of each known command into a per-type
slot the application can sample.

Packet types are normally generated from JSON descriptions by the rplgen
tool (see cmd/rplgen); packets/sample holds two generated examples.

Basic usage:

	reg := rpl.MustRegistry(
	    rpl.TypeOf[sample.SampleA](),
	    rpl.TypeOf[sample.SampleB](),
	)
	pool := rpl.NewPool(reg)
	parser := rpl.NewParser(pool)

	// Feed inbound bytes as they arrive, in any chunking.
	if err := parser.Push(chunk); err != nil {
	    // Only overflow surfaces; drain or push smaller chunks.
	}

	// Sample the latest SampleA payload.
	latest := rpl.Read[sample.SampleA](pool)

Sending is the inverse:

	ser := rpl.NewSerializer()
	buf := make([]byte, rpl.TotalFrameSize(&a, &b))
	n, err := ser.Serialize(buf, &a, &b)

The parser is single-producer/single-consumer and never blocks. Corruption
on the link never surfaces as an error; it is observable via Parser.Stats.
The transport subpackages bridge frame streams over serial ports, I2C
stream gateways, and websockets.
*/
package rpl
