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

// Package ws provides a Link tunnelling a frame stream over a websocket,
// for bridges that expose a remote serial device on the network. Each
// binary websocket message carries one chunk of the byte stream; message
// boundaries carry no meaning, exactly like serial read chunking.
package ws

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// Conn is a websocket Link.
type Conn struct {
	conn     *websocket.Conn
	leftover []byte
}

// Dial connects to a frame bridge at a ws:// or wss:// URL.
func Dial(ctx context.Context, url string) (*Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return &Conn{conn: conn}, nil
}

// Wrap adopts an already upgraded websocket connection, for the server
// side of a bridge.
func Wrap(conn *websocket.Conn) *Conn {
	return &Conn{conn: conn}
}

// Read copies out buffered bytes from the current message, fetching the
// next binary message when none remain.
func (c *Conn) Read(p []byte) (int, error) {
	if len(c.leftover) == 0 {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, fmt.Errorf("websocket read: %w", err)
		}
		c.leftover = data
	}
	n := copy(p, c.leftover)
	c.leftover = c.leftover[n:]
	return n, nil
}

// Write sends p as one binary message.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, fmt.Errorf("websocket write: %w", err)
	}
	return len(p), nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("websocket close: %w", err)
	}
	return nil
}
