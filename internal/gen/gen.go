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

// Package gen turns JSON packet descriptions into Go packet type
// declarations: the struct, its wire descriptor, and the little-endian
// payload codecs. It is the engine behind the rplgen command.
package gen

import (
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Field is one field of a packet description.
type Field struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// Config is a JSON packet description.
type Config struct {
	PacketName string  `json:"packet_name"`
	CommandID  string  `json:"command_id"`
	Package    string  `json:"package,omitempty"`
	Fields     []Field `json:"fields"`
}

// fieldType describes a supported wire scalar.
type fieldType struct {
	goType string
	size   int
	align  int
}

// fieldTypes maps description type names to wire scalars. The C spellings
// used by firmware-side descriptions are accepted as aliases.
var fieldTypes = map[string]fieldType{
	"uint8":   {goType: "uint8", size: 1, align: 1},
	"int8":    {goType: "int8", size: 1, align: 1},
	"uint16":  {goType: "uint16", size: 2, align: 2},
	"int16":   {goType: "int16", size: 2, align: 2},
	"uint32":  {goType: "uint32", size: 4, align: 4},
	"int32":   {goType: "int32", size: 4, align: 4},
	"uint64":  {goType: "uint64", size: 8, align: 8},
	"int64":   {goType: "int64", size: 8, align: 8},
	"float32": {goType: "float32", size: 4, align: 4},
	"float64": {goType: "float64", size: 8, align: 8},

	"uint8_t":  {goType: "uint8", size: 1, align: 1},
	"int8_t":   {goType: "int8", size: 1, align: 1},
	"uint16_t": {goType: "uint16", size: 2, align: 2},
	"int16_t":  {goType: "int16", size: 2, align: 2},
	"uint32_t": {goType: "uint32", size: 4, align: 4},
	"int32_t":  {goType: "int32", size: 4, align: 4},
	"uint64_t": {goType: "uint64", size: 8, align: 8},
	"int64_t":  {goType: "int64", size: 8, align: 8},
	"float":    {goType: "float32", size: 4, align: 4},
	"double":   {goType: "float64", size: 8, align: 8},
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadConfig reads and parses a JSON packet description file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a JSON packet description.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the description: identifiers, a command id that fits in
// 16 bits, at least one field, known field types, and no duplicate names.
func (c *Config) Validate() error {
	if !identRe.MatchString(c.PacketName) {
		return fmt.Errorf("packet_name %q is not a valid identifier", c.PacketName)
	}
	if c.Package != "" && !identRe.MatchString(c.Package) {
		return fmt.Errorf("package %q is not a valid identifier", c.Package)
	}
	if _, err := c.cmd(); err != nil {
		return err
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("packet %s has no fields", c.PacketName)
	}

	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if !identRe.MatchString(f.Name) {
			return fmt.Errorf("field name %q is not a valid identifier", f.Name)
		}
		goName := exportName(f.Name)
		if _, dup := seen[goName]; dup {
			return fmt.Errorf("duplicate field %q", f.Name)
		}
		seen[goName] = struct{}{}
		if _, ok := fieldTypes[f.Type]; !ok {
			return fmt.Errorf("field %q has unsupported type %q", f.Name, f.Type)
		}
	}
	return nil
}

// cmd parses the command id, accepting 0x-prefixed hex or decimal.
func (c *Config) cmd() (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(c.CommandID), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("command_id %q is not a 16-bit id: %w", c.CommandID, err)
	}
	return uint16(v), nil
}

// exportName converts a snake_case description name to an exported Go name.
func exportName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Generate renders the packet declaration as gofmt-formatted Go source.
// The description must already have passed Validate.
func Generate(c *Config) ([]byte, error) {
	cmd, err := c.cmd()
	if err != nil {
		return nil, err
	}

	pkg := c.Package
	if pkg == "" {
		pkg = "packets"
	}

	size := 0
	align := 1
	hasMulti := false
	hasFloat := false
	for _, f := range c.Fields {
		ft := fieldTypes[f.Type]
		size += ft.size
		if ft.align > align {
			align = ft.align
		}
		if ft.size > 1 {
			hasMulti = true
		}
		if ft.goType == "float32" || ft.goType == "float64" {
			hasFloat = true
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by rplgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("import (\n")
	if hasMulti {
		b.WriteString("\t\"encoding/binary\"\n")
	}
	if hasFloat {
		b.WriteString("\t\"math\"\n")
	}
	if hasMulti || hasFloat {
		b.WriteString("\n")
	}
	b.WriteString("\trpl \"github.com/RoboMaster-DLMU-CONE/rpl\"\n)\n\n")

	name := c.PacketName
	fmt.Fprintf(&b, "// %s is the packet for command 0x%04X (%d bytes on the wire).\n", name, cmd, size)
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range c.Fields {
		ft := fieldTypes[f.Type]
		if f.Comment != "" {
			fmt.Fprintf(&b, "\t%s %s // %s\n", exportName(f.Name), ft.goType, f.Comment)
		} else {
			fmt.Fprintf(&b, "\t%s %s\n", exportName(f.Name), ft.goType)
		}
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// Type returns the wire descriptor for %s.\n", name)
	fmt.Fprintf(&b, "func (*%s) Type() rpl.PacketType {\n", name)
	fmt.Fprintf(&b, "\treturn rpl.PacketType{Cmd: 0x%04X, Size: %d, Align: %d}\n", cmd, size, align)
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// MarshalPayload encodes p into its %d-byte little-endian wire layout.\n", size)
	fmt.Fprintf(&b, "func (p *%s) MarshalPayload(dst []byte) {\n", name)
	off := 0
	for _, f := range c.Fields {
		b.WriteString("\t" + marshalLine(f, off) + "\n")
		off += fieldTypes[f.Type].size
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "// UnmarshalPayload decodes the %d-byte little-endian wire layout into p.\n", size)
	fmt.Fprintf(&b, "func (p *%s) UnmarshalPayload(src []byte) {\n", name)
	off = 0
	for _, f := range c.Fields {
		b.WriteString("\t" + unmarshalLine(f, off) + "\n")
		off += fieldTypes[f.Type].size
	}
	b.WriteString("}\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("generated source does not format: %w", err)
	}
	return src, nil
}

func marshalLine(f Field, off int) string {
	ft := fieldTypes[f.Type]
	name := "p." + exportName(f.Name)
	span := fmt.Sprintf("dst[%d:%d]", off, off+ft.size)
	switch ft.goType {
	case "uint8":
		return fmt.Sprintf("dst[%d] = %s", off, name)
	case "int8":
		return fmt.Sprintf("dst[%d] = byte(%s)", off, name)
	case "uint16":
		return fmt.Sprintf("binary.LittleEndian.PutUint16(%s, %s)", span, name)
	case "int16":
		return fmt.Sprintf("binary.LittleEndian.PutUint16(%s, uint16(%s))", span, name)
	case "uint32":
		return fmt.Sprintf("binary.LittleEndian.PutUint32(%s, %s)", span, name)
	case "int32":
		return fmt.Sprintf("binary.LittleEndian.PutUint32(%s, uint32(%s))", span, name)
	case "uint64":
		return fmt.Sprintf("binary.LittleEndian.PutUint64(%s, %s)", span, name)
	case "int64":
		return fmt.Sprintf("binary.LittleEndian.PutUint64(%s, uint64(%s))", span, name)
	case "float32":
		return fmt.Sprintf("binary.LittleEndian.PutUint32(%s, math.Float32bits(%s))", span, name)
	case "float64":
		return fmt.Sprintf("binary.LittleEndian.PutUint64(%s, math.Float64bits(%s))", span, name)
	}
	return ""
}

func unmarshalLine(f Field, off int) string {
	ft := fieldTypes[f.Type]
	name := "p." + exportName(f.Name)
	span := fmt.Sprintf("src[%d:%d]", off, off+ft.size)
	switch ft.goType {
	case "uint8":
		return fmt.Sprintf("%s = src[%d]", name, off)
	case "int8":
		return fmt.Sprintf("%s = int8(src[%d])", name, off)
	case "uint16":
		return fmt.Sprintf("%s = binary.LittleEndian.Uint16(%s)", name, span)
	case "int16":
		return fmt.Sprintf("%s = int16(binary.LittleEndian.Uint16(%s))", name, span)
	case "uint32":
		return fmt.Sprintf("%s = binary.LittleEndian.Uint32(%s)", name, span)
	case "int32":
		return fmt.Sprintf("%s = int32(binary.LittleEndian.Uint32(%s))", name, span)
	case "uint64":
		return fmt.Sprintf("%s = binary.LittleEndian.Uint64(%s)", name, span)
	case "int64":
		return fmt.Sprintf("%s = int64(binary.LittleEndian.Uint64(%s))", name, span)
	case "float32":
		return fmt.Sprintf("%s = math.Float32frombits(binary.LittleEndian.Uint32(%s))", name, span)
	case "float64":
		return fmt.Sprintf("%s = math.Float64frombits(binary.LittleEndian.Uint64(%s))", name, span)
	}
	return ""
}
