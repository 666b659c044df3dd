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

// Frame layout constants. A frame is:
//
//	offset 0      1-2     3-4    5    6        7..7+len   last two
//	       SOF    cmd     len    seq  hdr crc  payload    frame crc
//
// All multi-byte fields are little-endian. The header CRC-8 covers bytes
// 0..5; the frame CRC-16/CCITT-FALSE covers everything from the SOF through
// the last payload byte.
const (
	// StartByte marks the start of every frame on the wire.
	StartByte = 0xA5

	// FrameHeaderSize is SOF + cmd + len + seq + header CRC-8.
	FrameHeaderSize = 7

	// FrameTailSize is the trailing frame CRC-16.
	FrameTailSize = 2

	// FrameOverhead is the per-frame byte cost beyond the payload.
	FrameOverhead = FrameHeaderSize + FrameTailSize
)

// PacketType describes one registered packet type: its 16-bit command id,
// its fixed payload size on the wire, and the natural alignment of its
// widest field. Descriptors are produced by rplgen-generated code and are
// immutable once handed to a Registry.
type PacketType struct {
	Cmd   uint16
	Size  int
	Align int
}

// Packet is implemented by every generated packet type. MarshalPayload and
// UnmarshalPayload convert between the Go struct and its little-endian wire
// layout; both operate on a slice of exactly Type().Size bytes.
type Packet interface {
	Type() PacketType
	MarshalPayload(dst []byte)
	UnmarshalPayload(src []byte)
}

// PacketPtr constrains a pointer to a packet struct, letting the generic
// helpers recover a type's descriptor without an instance.
type PacketPtr[T any] interface {
	*T
	Packet
}

// TypeOf returns the descriptor of packet type T.
func TypeOf[T any, PT PacketPtr[T]]() PacketType {
	var v T
	return PT(&v).Type()
}

// FrameSizeOf returns the on-wire frame size for a packet type.
func FrameSizeOf(t PacketType) int {
	return FrameHeaderSize + t.Size + FrameTailSize
}

// TotalFrameSize returns the buffer size needed to serialize all packets.
func TotalFrameSize(packets ...Packet) int {
	total := 0
	for _, p := range packets {
		total += FrameSizeOf(p.Type())
	}
	return total
}
