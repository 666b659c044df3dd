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

import "fmt"

// Stats counts the conditions the parser absorbs silently. Corruption on
// the link never surfaces as an error from Push; these counters are the
// only way to observe it.
type Stats struct {
	// BytesPushed is the total byte count accepted by Push.
	BytesPushed uint64

	// BytesDiscarded counts noise bytes dropped during resynchronisation.
	// Bytes consumed by committed frames are not included.
	BytesDiscarded uint64

	// FramesCommitted counts frames validated and written to the pool.
	FramesCommitted uint64

	// UnknownCommands counts CRC-valid frames whose command id is not
	// registered. Their payloads are dropped.
	UnknownCommands uint64

	// HeaderCRCErrors counts candidate headers rejected by CRC-8.
	HeaderCRCErrors uint64

	// FrameCRCErrors counts frames rejected by the trailing CRC-16.
	FrameCRCErrors uint64

	// LengthMismatches counts headers whose length field implied a frame
	// larger than the largest registered frame or disagreed with the
	// registered size.
	LengthMismatches uint64
}

// String formats the counters for diagnostics.
func (s Stats) String() string {
	return fmt.Sprintf(
		"pushed=%d discarded=%d committed=%d unknown=%d hdr_crc=%d frame_crc=%d len=%d",
		s.BytesPushed, s.BytesDiscarded, s.FramesCommitted,
		s.UnknownCommands, s.HeaderCRCErrors, s.FrameCRCErrors, s.LengthMismatches,
	)
}
