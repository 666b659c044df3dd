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

package rpl_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rpl "github.com/RoboMaster-DLMU-CONE/rpl"
	"github.com/RoboMaster-DLMU-CONE/rpl/packets/sample"
)

func sampleParser(t *testing.T, opts ...rpl.Option) (*rpl.Parser, *rpl.Pool) {
	t.Helper()
	pool := samplePool(t)
	return rpl.NewParser(pool, opts...), pool
}

func serializeFrames(t *testing.T, packets ...rpl.Packet) []byte {
	t.Helper()
	ser := rpl.NewSerializer()
	out := make([]byte, rpl.TotalFrameSize(packets...))
	n, err := ser.Serialize(out, packets...)
	require.NoError(t, err)
	return out[:n]
}

func TestParserRoundTrip(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	want := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	require.NoError(t, parser.Push(serializeFrames(t, &want)))

	assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
	assert.Zero(t, parser.Occupancy())

	stats := parser.Stats()
	assert.Equal(t, uint64(1), stats.FramesCommitted)
	assert.Zero(t, stats.HeaderCRCErrors)
	assert.Zero(t, stats.FrameCRCErrors)
}

func TestParserMultiPacketRoundTrip(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	a := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	b := sample.SampleB{X: 1337, Y: 9.876}
	require.NoError(t, parser.Push(serializeFrames(t, &a, &b)))

	assert.Equal(t, a, rpl.Read[sample.SampleA](pool))
	assert.Equal(t, b, rpl.Read[sample.SampleB](pool))
	assert.Equal(t, uint64(2), parser.Stats().FramesCommitted)
}

func TestParserLastValueWins(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	first := sample.SampleA{A: 1, D: 1.0}
	second := sample.SampleA{A: 2, D: 2.0}
	require.NoError(t, parser.Push(serializeFrames(t, &first, &second)))

	assert.Equal(t, second, rpl.Read[sample.SampleA](pool))
}

// Feeding a valid stream in chunks of any size must end in the same pool
// state as feeding it at once.
func TestParserFragmentationInvariance(t *testing.T) {
	t.Parallel()

	a := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	b := sample.SampleB{X: 1337, Y: 9.876}

	chunkings := []struct {
		name  string
		sizes []int
	}{
		{name: "three of fifteen", sizes: []int{15, 15, 15}},
		{name: "byte at a time", sizes: nil}, // nil means single bytes
		{name: "uneven", sizes: []int{1, 6, 2, 30, 6}},
		{name: "header split", sizes: []int{3, 42}},
	}

	for _, tt := range chunkings {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			parser, pool := sampleParser(t)
			stream := serializeFrames(t, &a, &b)
			require.Len(t, stream, 45)

			sizes := tt.sizes
			if sizes == nil {
				for range stream {
					sizes = append(sizes, 1)
				}
			}
			off := 0
			for _, n := range sizes {
				require.NoError(t, parser.Push(stream[off:off+n]))
				off += n
			}
			require.Equal(t, len(stream), off)

			assert.Equal(t, a, rpl.Read[sample.SampleA](pool))
			assert.Equal(t, b, rpl.Read[sample.SampleB](pool))
		})
	}
}

func TestParserNoiseTolerance(t *testing.T) {
	t.Parallel()

	a := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	b := sample.SampleB{X: 1337, Y: 9.876}
	noise := bytes.Repeat([]byte{0xAB}, 50)

	tests := []struct {
		name   string
		stream func(t *testing.T) []byte
	}{
		{
			name: "prefix noise",
			stream: func(t *testing.T) []byte {
				t.Helper()
				return append(append([]byte{}, noise...), serializeFrames(t, &a, &b)...)
			},
		},
		{
			name: "interleaved noise",
			stream: func(t *testing.T) []byte {
				t.Helper()
				s := serializeFrames(t, &a)
				s = append(s, noise...)
				return append(s, serializeFrames(t, &b)...)
			},
		},
		{
			name: "trailing noise",
			stream: func(t *testing.T) []byte {
				t.Helper()
				return append(serializeFrames(t, &a, &b), noise...)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			parser, pool := sampleParser(t)
			require.NoError(t, parser.Push(tt.stream(t)))

			assert.Equal(t, a, rpl.Read[sample.SampleA](pool))
			assert.Equal(t, b, rpl.Read[sample.SampleB](pool))
			assert.Equal(t, uint64(2), parser.Stats().FramesCommitted)
		})
	}
}

// Flipping any single byte of a frame must keep it out of the pool while a
// following valid frame still commits.
func TestParserCorruptionDrop(t *testing.T) {
	t.Parallel()

	bad := sample.SampleA{A: 9, B: 9, C: 9, D: 9}
	good := sample.SampleA{A: 7, B: 7, C: 7, D: 7}

	pristine := serializeFrames(t, &bad)
	for i := range pristine {
		i := i
		t.Run(fmt.Sprintf("byte %d", i), func(t *testing.T) {
			t.Parallel()
			parser, pool := sampleParser(t)

			corrupted := append([]byte{}, pristine...)
			corrupted[i] ^= 0xFF

			require.NoError(t, parser.Push(corrupted))
			require.NoError(t, parser.Push(serializeFrames(t, &good)))

			assert.Equal(t, good, rpl.Read[sample.SampleA](pool))
		})
	}
}

// Scenario: a frame whose trailing CRC byte was damaged, immediately
// followed by a healthy frame of the same command.
func TestParserCorruptTailThenValidFrame(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	first := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	second := sample.SampleA{A: 7, B: 7, C: 7, D: 7}

	ser := rpl.NewSerializer()
	buf := make([]byte, 48)
	n, err := ser.Serialize(buf, &first)
	require.NoError(t, err)
	buf[n-1] ^= 0xFF // damage the high CRC-16 byte
	m, err := ser.Serialize(buf[n:], &second)
	require.NoError(t, err)

	require.NoError(t, parser.Push(buf[:n+m]))
	assert.Equal(t, second, rpl.Read[sample.SampleA](pool))

	stats := parser.Stats()
	assert.Equal(t, uint64(1), stats.FramesCommitted)
	assert.NotZero(t, stats.FrameCRCErrors)
}

// A start byte followed by garbage that fails the header CRC must not
// poison recovery of the valid frame behind it.
func TestParserFalseStartByte(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	want := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
	stream := []byte{0xA5, 0x13, 0x57, 0x9B, 0xDF, 0x24, 0x68}
	stream = append(stream, serializeFrames(t, &want)...)

	require.NoError(t, parser.Push(stream))
	assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
	assert.NotZero(t, parser.Stats().HeaderCRCErrors)
}

func TestParserOverflow(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	// Default ring: next power of two of 4*24 = 128 physical bytes.
	require.Equal(t, 127, parser.FreeSpace())

	err := parser.Push(make([]byte, 128))
	require.Error(t, err)
	assert.ErrorIs(t, err, rpl.ErrBufferOverflow)

	// Nothing was appended; the parser still works.
	assert.Zero(t, parser.Occupancy())
	want := sample.SampleA{A: 5}
	require.NoError(t, parser.Push(serializeFrames(t, &want)))
	assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
}

func TestParserUnknownCommandConsumed(t *testing.T) {
	t.Parallel()

	parser, pool := sampleParser(t)

	unknown := &unknownPacket{V: 0xDEAD}
	stream := serializeFrames(t, unknown)
	want := sample.SampleA{A: 3, D: 0.25}
	stream = append(stream, serializeFrames(t, &want)...)

	require.NoError(t, parser.Push(stream))

	assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
	assert.Zero(t, parser.Occupancy())

	stats := parser.Stats()
	assert.Equal(t, uint64(1), stats.UnknownCommands)
	assert.Equal(t, uint64(1), stats.FramesCommitted)
}

// unknownPacket serializes under a cmd the sample registry does not know.
type unknownPacket struct {
	V uint32
}

func (*unknownPacket) Type() rpl.PacketType {
	return rpl.PacketType{Cmd: 0x0666, Size: 4, Align: 4}
}

func (p *unknownPacket) MarshalPayload(dst []byte) {
	dst[0] = byte(p.V)
	dst[1] = byte(p.V >> 8)
	dst[2] = byte(p.V >> 16)
	dst[3] = byte(p.V >> 24)
}

func (p *unknownPacket) UnmarshalPayload(src []byte) {
	p.V = uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}

// lyingPacket reports SampleA's cmd but a wrong payload size, producing a
// frame whose header length disagrees with the registered size.
type lyingPacket struct{}

func (*lyingPacket) Type() rpl.PacketType {
	return rpl.PacketType{Cmd: 0x0102, Size: 8, Align: 1}
}

func (*lyingPacket) MarshalPayload(dst []byte) {
	for i := range dst {
		dst[i] = 0x55
	}
}

func (*lyingPacket) UnmarshalPayload([]byte) {}

func TestParserRejectsLengthMismatch(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	stream := serializeFrames(t, &lyingPacket{})
	want := sample.SampleA{A: 11}
	stream = append(stream, serializeFrames(t, &want)...)

	require.NoError(t, parser.Push(stream))

	// The mismatched frame is refused; the following frame still commits.
	assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
	assert.NotZero(t, parser.Stats().LengthMismatches)
	assert.Equal(t, uint64(1), parser.Stats().FramesCommitted)
}

// Frames that straddle the ring's physical boundary must commit exactly
// like contiguous ones, for both a wrapped body and a wrapped header.
func TestParserWrapAround(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		preload int // noise bytes pushed first to park the cursors
	}{
		{name: "body wraps", preload: 120},
		{name: "header wraps", preload: 124},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			parser, pool := sampleParser(t)

			// The zero noise carries no start byte; the parser keeps
			// only its trailing byte, leaving the cursors parked near
			// the physical end of the 128-byte ring.
			require.NoError(t, parser.Push(make([]byte, tt.preload)))
			require.Equal(t, 1, parser.Occupancy())

			want := sample.SampleA{A: 42, B: -1234, C: 3.14, D: 2.718}
			require.NoError(t, parser.Push(serializeFrames(t, &want)))

			assert.Equal(t, want, rpl.Read[sample.SampleA](pool))
			assert.Zero(t, parser.Occupancy())
		})
	}
}

func TestParserClear(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	committed := sample.SampleA{A: 1}
	require.NoError(t, parser.Push(serializeFrames(t, &committed)))

	// Buffer a partial frame, then drop it.
	partial := serializeFrames(t, &sample.SampleA{A: 2})
	require.NoError(t, parser.Push(partial[:10]))
	require.NotZero(t, parser.Occupancy())

	parser.Clear()
	assert.Zero(t, parser.Occupancy())
	assert.False(t, parser.Full())

	// Committed slots survive a clear.
	assert.Equal(t, committed, rpl.Read[sample.SampleA](pool))
}

func TestParserWithRingCapacity(t *testing.T) {
	t.Parallel()
	parser, _ := sampleParser(t, rpl.WithRingCapacity(1024))
	assert.Equal(t, 1023, parser.FreeSpace())

	// A capacity below twice the largest frame is raised to the default.
	small, _ := sampleParser(t, rpl.WithRingCapacity(8))
	assert.Equal(t, 127, small.FreeSpace())
}

func TestParserIncompleteFrameWaits(t *testing.T) {
	t.Parallel()
	parser, pool := sampleParser(t)

	stream := serializeFrames(t, &sample.SampleA{A: 42})
	require.NoError(t, parser.Push(stream[:23]))

	// Nothing committed yet; the frame is one byte short.
	assert.Equal(t, sample.SampleA{}, rpl.Read[sample.SampleA](pool))
	assert.Equal(t, 23, parser.Occupancy())

	require.NoError(t, parser.Push(stream[23:]))
	assert.Equal(t, sample.SampleA{A: 42}, rpl.Read[sample.SampleA](pool))
}
