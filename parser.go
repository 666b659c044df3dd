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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoboMaster-DLMU-CONE/rpl/internal/crc"
	"github.com/RoboMaster-DLMU-CONE/rpl/internal/ringbuf"
)

// Parser recovers frames from an arbitrarily chunked inbound byte stream
// and commits their payloads to the memory pool. It tolerates interleaved
// noise and fragmentation: a corrupted candidate frame costs exactly one
// discarded byte, so the bytes after a false start are re-examined for a
// real frame. The parser allocates everything at construction and never
// blocks.
//
// It is single-producer/single-consumer: one goroutine calls Push, and
// readers sample the pool cooperatively.
type Parser struct {
	reg     *Registry
	pool    *Pool
	rb      *ringbuf.Buffer
	scratch []byte
	stats   Stats

	ringCap int
}

// NewParser creates a parser committing into pool. The ring buffer defaults
// to four times the largest registered frame, rounded up to a power of two.
func NewParser(pool *Pool, opts ...Option) *Parser {
	p := &Parser{
		reg:  pool.Registry(),
		pool: pool,
	}
	for _, opt := range opts {
		opt(p)
	}

	maxFrame := p.reg.MaxFrameSize()
	if p.ringCap < 2*maxFrame {
		p.ringCap = 4 * maxFrame
	}
	p.rb = ringbuf.New(p.ringCap)
	p.scratch = make([]byte, maxFrame)
	return p
}

// Push appends bytes to the ring buffer and extracts every complete frame
// they unlock. It returns ErrBufferOverflow, appending nothing, when the
// bytes do not fit; all other anomalies are absorbed by resynchronisation
// and show up only in Stats.
func (p *Parser) Push(data []byte) error {
	if !p.rb.Write(data) {
		return fmt.Errorf("%w: %d bytes into %d free", ErrBufferOverflow, len(data), p.rb.Free())
	}
	p.stats.BytesPushed += uint64(len(data))
	p.extract()
	return nil
}

// Clear drains the ring buffer. Committed pool slots are unaffected.
func (p *Parser) Clear() {
	p.rb.Reset()
}

// Occupancy returns the number of buffered, not yet consumed bytes.
func (p *Parser) Occupancy() int {
	return p.rb.Len()
}

// FreeSpace returns the number of bytes Push can accept right now.
func (p *Parser) FreeSpace() int {
	return p.rb.Free()
}

// Full reports whether the ring buffer has no free space.
func (p *Parser) Full() bool {
	return p.rb.Full()
}

// Stats returns a snapshot of the parser's counters.
func (p *Parser) Stats() Stats {
	return p.stats
}

// extract runs the frame recovery loop on the contiguous view of the ring.
// Candidate frames that straddle the physical wrap are handed to the slow
// path, which peeks them into the scratch buffer.
func (p *Parser) extract() {
	for p.rb.Len() >= FrameHeaderSize {
		view := p.rb.Contiguous()
		if len(view) < FrameHeaderSize {
			p.extractWrapped()
			return
		}

		scan := 0
		for {
			idx := bytes.IndexByte(view[scan:], StartByte)
			if idx < 0 {
				// No start byte anywhere in the view. Everything up
				// to the last byte is noise; the last byte could be
				// the leader of a split frame, so it stays.
				p.drop(len(view) - 1)
				break
			}
			start := scan + idx

			remain := len(view) - start
			if remain < FrameHeaderSize {
				if start > 0 {
					p.drop(start)
				}
				p.extractWrapped()
				return
			}

			hdr := view[start : start+FrameHeaderSize]
			cmd, length, ok := p.validateHeader(hdr)
			if !ok {
				scan = start + 1
				continue
			}

			total := FrameHeaderSize + length + FrameTailSize
			if remain < total {
				// The frame continues past the physical end or is
				// not fully buffered yet.
				if start > 0 {
					p.drop(start)
				}
				p.extractWrapped()
				return
			}

			frame := view[start : start+total]
			if !p.checkFrameCRC(frame) {
				scan = start + 1
				continue
			}

			if start > 0 {
				p.drop(start)
			}
			p.commit(cmd, frame[FrameHeaderSize:FrameHeaderSize+length])
			p.rb.Discard(total)
			break
		}
	}
}

// extractWrapped is the slow path for frames that straddle the ring's
// physical boundary: header and frame are peeked into the scratch buffer
// before validation. Behaviourally identical to the fast path.
func (p *Parser) extractWrapped() {
	for p.rb.Len() >= FrameHeaderSize {
		pos, found := p.rb.FindByte(StartByte)
		if !found {
			if n := p.rb.Len(); n > 1 {
				p.drop(n - 1)
			}
			return
		}
		if pos > 0 {
			p.drop(pos)
		}
		if p.rb.Len() < FrameHeaderSize {
			return
		}

		hdr := p.scratch[:FrameHeaderSize]
		p.rb.Peek(hdr, 0)
		cmd, length, ok := p.validateHeader(hdr)
		if !ok {
			p.drop(1)
			continue
		}

		total := FrameHeaderSize + length + FrameTailSize
		if p.rb.Len() < total {
			return
		}

		frame := p.scratch[:total]
		p.rb.Peek(frame, 0)
		if !p.checkFrameCRC(frame) {
			// Keep everything after the false start byte so the next
			// pass can resynchronise inside the suspect frame.
			p.drop(1)
			continue
		}

		p.rb.Discard(total)
		p.commit(cmd, frame[FrameHeaderSize:FrameHeaderSize+length])
	}
}

// validateHeader checks a 7-byte candidate header: start byte, CRC-8, the
// length bound against the largest registered frame, and agreement between
// the length field and the registered size when the command is known.
func (p *Parser) validateHeader(hdr []byte) (cmd uint16, length int, ok bool) {
	if hdr[0] != StartByte {
		return 0, 0, false
	}
	if crc.Checksum8(hdr[:6]) != hdr[6] {
		p.stats.HeaderCRCErrors++
		return 0, 0, false
	}
	cmd = binary.LittleEndian.Uint16(hdr[1:3])
	length = int(binary.LittleEndian.Uint16(hdr[3:5]))
	if length > p.reg.MaxFrameSize()-FrameOverhead {
		p.stats.LengthMismatches++
		return 0, 0, false
	}
	if size, known := p.reg.SizeOf(cmd); known && size != length {
		p.stats.LengthMismatches++
		return 0, 0, false
	}
	return cmd, length, true
}

func (p *Parser) checkFrameCRC(frame []byte) bool {
	body := len(frame) - FrameTailSize
	if crc.Checksum16(frame[:body]) != binary.LittleEndian.Uint16(frame[body:]) {
		p.stats.FrameCRCErrors++
		return false
	}
	return true
}

// commit copies a validated payload into its slot. Frames for commands the
// registry does not know are consumed and dropped.
func (p *Parser) commit(cmd uint16, payload []byte) {
	if slot, ok := p.pool.writeSlot(cmd); ok {
		copy(slot, payload)
		p.stats.FramesCommitted++
	} else {
		p.stats.UnknownCommands++
	}
}

// drop discards n noise bytes and counts them.
func (p *Parser) drop(n int) {
	if n <= 0 {
		return
	}
	p.rb.Discard(n)
	p.stats.BytesDiscarded += uint64(n)
}
