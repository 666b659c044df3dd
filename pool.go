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

// Pool holds the latest payload of every registered command, one slot per
// type, laid out by the registry. Slots start zeroed and are overwritten in
// place by the parser each time a valid frame for their command arrives.
type Pool struct {
	reg *Registry
	buf []byte
}

// NewPool allocates a zeroed pool sized by the registry.
func NewPool(reg *Registry) *Pool {
	return &Pool{
		reg: reg,
		buf: make([]byte, reg.TotalSize()),
	}
}

// Registry returns the registry this pool was built from.
func (p *Pool) Registry() *Registry {
	return p.reg
}

// writeSlot returns the mutable slot for a command. Parser use only.
func (p *Pool) writeSlot(cmd uint16) ([]byte, bool) {
	off, ok := p.reg.OffsetOf(cmd)
	if !ok {
		return nil, false
	}
	size, _ := p.reg.SizeOf(cmd)
	return p.buf[off : off+size], true
}

// Slot returns a live view of the raw wire bytes in a command's slot.
// The view is not a copy: it is not thread-safe against a concurrent
// parser commit for the same command, and is intended for cooperative
// zero-copy inspection. Use Read or ReadInto for a consistent copy.
func (p *Pool) Slot(cmd uint16) ([]byte, bool) {
	s, ok := p.writeSlot(cmd)
	return s, ok
}

// ReadInto decodes the slot for pk's command into pk. It reports false,
// leaving pk untouched, if the command is not registered.
func (p *Pool) ReadInto(pk Packet) bool {
	s, ok := p.writeSlot(pk.Type().Cmd)
	if !ok {
		return false
	}
	pk.UnmarshalPayload(s)
	return true
}

// Read returns a by-value copy of the T slot, decoded from its wire bytes.
// An unregistered T yields the zero value.
func Read[T any, PT PacketPtr[T]](p *Pool) T {
	var v T
	p.ReadInto(PT(&v))
	return v
}
