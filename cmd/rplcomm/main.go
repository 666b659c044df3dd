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

// rplcomm is the link demo: it pumps inbound frames from a device into a
// parser while periodically sending a SampleB, and prints the latest
// SampleA the peer reported.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	rpl "github.com/RoboMaster-DLMU-CONE/rpl"
	"github.com/RoboMaster-DLMU-CONE/rpl/packets/sample"
	"github.com/RoboMaster-DLMU-CONE/rpl/transport"
	"github.com/RoboMaster-DLMU-CONE/rpl/transport/i2c"
	"github.com/RoboMaster-DLMU-CONE/rpl/transport/uart"
	"github.com/RoboMaster-DLMU-CONE/rpl/transport/ws"
)

var (
	flagConfig   string
	flagDevice   string
	flagBaud     int
	flagInterval time.Duration
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:   "rplcomm",
		Short: "Exchange rpl sample packets over a serial, I2C, or websocket link",
		Long: `rplcomm opens a frame link, feeds every inbound byte into an rpl
parser, and once per interval serialises a SampleB packet to the peer
while printing the latest SampleA the peer sent.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := DefaultConfig()
			if flagConfig != "" {
				loaded, err := LoadConfig(flagConfig)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("device") {
				cfg.Device = flagDevice
			}
			if cmd.Flags().Changed("baud") {
				cfg.Baud = flagBaud
			}
			if cmd.Flags().Changed("interval") {
				cfg.IntervalMS = int(flagInterval / time.Millisecond)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), log, cfg)
		},
	}

	root.Flags().StringVarP(&flagConfig, "config", "c", "", "TOML config file")
	root.Flags().StringVarP(&flagDevice, "device", "d", "/dev/ttyACM0",
		"serial path, i2c bus (i2c-1), or ws:// bridge URL")
	root.Flags().IntVarP(&flagBaud, "baud", "b", uart.DefaultBaudRate, "serial baud rate")
	root.Flags().DurationVarP(&flagInterval, "interval", "t", time.Second, "send interval")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("rplcomm failed")
		os.Exit(1)
	}
}

// openLink picks a transport from the device string.
func openLink(ctx context.Context, cfg Config) (transport.Link, error) {
	device := cfg.Device
	switch {
	case strings.HasPrefix(device, "ws://"), strings.HasPrefix(device, "wss://"):
		return ws.Dial(ctx, device)
	case strings.Contains(strings.ToLower(device), "i2c"):
		return i2c.New(device, i2c.DefaultAddr)
	default:
		return uart.Open(device, &uart.Config{BaudRate: cfg.Baud})
	}
}

func run(ctx context.Context, log zerolog.Logger, cfg Config) error {
	reg, err := rpl.NewRegistry(
		rpl.TypeOf[sample.SampleA](),
		rpl.TypeOf[sample.SampleB](),
	)
	if err != nil {
		return err
	}
	pool := rpl.NewPool(reg)
	parser := rpl.NewParser(pool)
	ser := rpl.NewSerializer()

	link, err := openLink(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := link.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("link close")
		}
	}()
	log.Info().Str("device", cfg.Device).Dur("interval", cfg.Interval()).Msg("link open")

	// Inbound: pump bytes into the parser. The pool is written by the pump
	// goroutine and sampled by the ticker loop, so both sides take the
	// lock. An overflowing push only means the producer outran extraction;
	// drop the buffered noise and go on.
	var mu sync.Mutex
	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- transport.Pump(ctx, link, func(chunk []byte) error {
			mu.Lock()
			defer mu.Unlock()
			if err := parser.Push(chunk); err != nil {
				if errors.Is(err, rpl.ErrBufferOverflow) {
					log.Warn().Int("occupancy", parser.Occupancy()).Msg("parser overflow, clearing")
					parser.Clear()
					return nil
				}
				return err
			}
			return nil
		})
	}()

	// Outbound: one SampleB per tick, then report the latest SampleA.
	ticker := time.NewTicker(cfg.Interval())
	defer ticker.Stop()

	outgoing := sample.SampleB{}
	buf := make([]byte, rpl.FrameSizeOf(rpl.TypeOf[sample.SampleB]()))
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			stats := parser.Stats()
			mu.Unlock()
			log.Info().Stringer("stats", stats).Msg("shutting down")
			return nil
		case err := <-pumpErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("inbound pump: %w", err)
			}
			return nil
		case <-ticker.C:
			outgoing.X++
			outgoing.Y += 2
			n, err := ser.Serialize(buf, &outgoing)
			if err != nil {
				return err
			}
			if _, err := link.Write(buf[:n]); err != nil {
				return fmt.Errorf("link write: %w", err)
			}

			mu.Lock()
			latest := rpl.Read[sample.SampleA](pool)
			frames := parser.Stats().FramesCommitted
			mu.Unlock()
			log.Info().
				Uint8("a", latest.A).
				Int16("b", latest.B).
				Float32("c", latest.C).
				Float64("d", latest.D).
				Uint64("frames", frames).
				Msg("latest SampleA")
		}
	}
}
