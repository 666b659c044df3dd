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

// rplgen generates Go packet type declarations from JSON descriptions.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/RoboMaster-DLMU-CONE/rpl/internal/gen"
)

var (
	inputPath  string
	outputPath string
	pkgName    string
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:   "rplgen",
		Short: "Generate rpl packet types from JSON descriptions",
		Long: `rplgen reads a JSON packet description and emits a Go source file
containing the packet struct, its wire descriptor, and the little-endian
payload codecs used by the rpl frame codec.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := gen.LoadConfig(inputPath)
			if err != nil {
				return err
			}
			if pkgName != "" {
				cfg.Package = pkgName
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid packet description: %w", err)
			}

			src, err := gen.Generate(cfg)
			if err != nil {
				return err
			}

			if outputPath == "" {
				_, err := os.Stdout.Write(src)
				return err
			}
			if err := os.WriteFile(outputPath, src, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			log.Info().
				Str("packet", cfg.PacketName).
				Str("output", outputPath).
				Msg("generated packet type")
			return nil
		},
	}

	root.Flags().StringVarP(&inputPath, "input", "i", "", "JSON packet description (required)")
	root.Flags().StringVarP(&outputPath, "output", "o", "", "output Go file (default stdout)")
	root.Flags().StringVarP(&pkgName, "package", "p", "", "override the output package name")
	_ = root.MarkFlagRequired("input")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
}
