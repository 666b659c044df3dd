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

import (
	"encoding/binary"
	"fmt"

	"github.com/RoboMaster-DLMU-CONE/rpl/internal/crc"
)

// Serializer emits well-formed frames into caller-provided buffers. It
// carries an 8-bit sequence counter that advances once per Serialize call
// and wraps at 256; every frame written by one call shares the same value.
type Serializer struct {
	seq uint8
}

// NewSerializer creates a serializer with the sequence counter at zero.
// The first Serialize call emits seq 1.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize writes one frame per packet, in order, into out. It returns
// the total number of bytes written, or ErrBufferOverflow, writing
// nothing, when out is smaller than TotalFrameSize(packets...).
func (s *Serializer) Serialize(out []byte, packets ...Packet) (int, error) {
	total := TotalFrameSize(packets...)
	if total > len(out) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferOverflow, total, len(out))
	}

	s.seq++
	n := 0
	for _, pk := range packets {
		n += encodeFrame(out[n:], pk, s.seq)
	}
	return n, nil
}

// encodeFrame writes one frame for pk into dst and returns its length.
// dst must hold at least FrameSizeOf(pk.Type()) bytes.
func encodeFrame(dst []byte, pk Packet, seq uint8) int {
	t := pk.Type()
	frame := dst[:FrameSizeOf(t)]

	frame[0] = StartByte
	binary.LittleEndian.PutUint16(frame[1:3], t.Cmd)
	binary.LittleEndian.PutUint16(frame[3:5], uint16(t.Size))
	frame[5] = seq
	frame[6] = crc.Checksum8(frame[:6])

	pk.MarshalPayload(frame[FrameHeaderSize : FrameHeaderSize+t.Size])

	body := FrameHeaderSize + t.Size
	binary.LittleEndian.PutUint16(frame[body:], crc.Checksum16(frame[:body]))
	return len(frame)
}
