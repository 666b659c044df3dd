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

import "errors"

// Errors reported by the library. Only ErrBufferOverflow is returned by
// Parser.Push and Serializer.Serialize; the parser absorbs corrupted input
// silently and resynchronises instead of failing the call. The remaining
// sentinels exist for introspection and for transports and tools layered on
// top of the codec.
var (
	// ErrBufferOverflow means the producer overran the parser's ring
	// buffer, or a caller-provided output buffer was too small.
	ErrBufferOverflow = errors.New("buffer overflow")

	// ErrInsufficientData means an operation needed more buffered bytes
	// than were available.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoFrameHeader means no start-of-frame byte was found.
	ErrNoFrameHeader = errors.New("no frame header")

	// ErrInvalidFrameHeader means a frame header failed validation.
	ErrInvalidFrameHeader = errors.New("invalid frame header")

	// ErrCRCMismatch means a frame checksum did not match.
	ErrCRCMismatch = errors.New("crc mismatch")

	// ErrInternal means an internal invariant was violated.
	ErrInternal = errors.New("internal error")

	// ErrInvalidCommand means a command id is not registered.
	ErrInvalidCommand = errors.New("invalid command")
)
