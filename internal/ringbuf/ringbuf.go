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

// Package ringbuf implements the power-of-two byte ring the frame parser
// sits behind. It is single-producer/single-consumer and keeps one slot
// reserved so a full buffer is distinguishable from an empty one.
package ringbuf

import "bytes"

// Buffer is a fixed-capacity byte ring. Index arithmetic is masked, so the
// stored capacity is always a power of two and usable capacity is one less.
type Buffer struct {
	buf  []byte
	mask int
	r    int
	w    int
}

// New creates a ring whose physical size is capacity rounded up to the next
// power of two. Usable capacity is one byte less than the physical size.
func New(capacity int) *Buffer {
	if capacity < 2 {
		capacity = 2
	}
	size := nextPow2(capacity)
	return &Buffer{
		buf:  make([]byte, size),
		mask: size - 1,
	}
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// Cap returns the physical buffer size.
func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Len returns the number of readable bytes.
func (b *Buffer) Len() int {
	return (b.w - b.r) & b.mask
}

// Free returns the number of writable bytes.
func (b *Buffer) Free() int {
	return (b.r - b.w - 1) & b.mask
}

// Empty reports whether no bytes are readable.
func (b *Buffer) Empty() bool {
	return b.r == b.w
}

// Full reports whether no bytes are writable.
func (b *Buffer) Full() bool {
	return b.Free() == 0
}

// Reset drops all buffered bytes.
func (b *Buffer) Reset() {
	b.r = 0
	b.w = 0
}

// Write appends src to the ring. It returns false, appending nothing, if
// src does not fit in the free space.
func (b *Buffer) Write(src []byte) bool {
	if len(src) > b.Free() {
		return false
	}
	n := copy(b.buf[b.w:], src)
	copy(b.buf, src[n:])
	b.w = (b.w + len(src)) & b.mask
	return true
}

// Read copies len(dst) bytes out of the ring and advances the read cursor.
// It returns false, copying nothing, if fewer bytes are buffered.
func (b *Buffer) Read(dst []byte) bool {
	if !b.Peek(dst, 0) {
		return false
	}
	b.r = (b.r + len(dst)) & b.mask
	return true
}

// Peek copies len(dst) bytes starting offset bytes past the read cursor
// without advancing it. It returns false if the range is not buffered.
func (b *Buffer) Peek(dst []byte, offset int) bool {
	if offset < 0 || offset+len(dst) > b.Len() {
		return false
	}
	start := (b.r + offset) & b.mask
	n := copy(dst, b.buf[start:])
	copy(dst[n:], b.buf)
	return true
}

// Discard advances the read cursor by n bytes. It returns false, advancing
// nothing, if fewer bytes are buffered.
func (b *Buffer) Discard(n int) bool {
	if n < 0 || n > b.Len() {
		return false
	}
	b.r = (b.r + n) & b.mask
	return true
}

// FindByte returns the offset from the read cursor to the first occurrence
// of c within the buffered bytes.
func (b *Buffer) FindByte(c byte) (int, bool) {
	head := b.Contiguous()
	if i := bytes.IndexByte(head, c); i >= 0 {
		return i, true
	}
	if tail := b.Len() - len(head); tail > 0 {
		if i := bytes.IndexByte(b.buf[:tail], c); i >= 0 {
			return len(head) + i, true
		}
	}
	return 0, false
}

// Contiguous returns a zero-copy view of the buffered bytes that lie
// physically contiguous after the read cursor. When the data wraps the view
// is shorter than Len; it never crosses the physical boundary. The view is
// valid until the next Write, Discard, Read, or Reset.
func (b *Buffer) Contiguous() []byte {
	if b.r <= b.w {
		return b.buf[b.r:b.w]
	}
	return b.buf[b.r:]
}
