// SPDX-License-Identifier: MIT

// Package svd parses CMSIS-SVD documents into a minimal register model.
//
// The model covers what the regice tools need to address registers: devices,
// peripherals, registers and bit fields, with SVD's mixed integer notations
// (decimal, 0x hex, # binary) handled transparently. Enumerated values and
// derivedFrom resolution are out of scope; register semantics belong to the
// tools built on top of this package.
package svd

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Integer is an SVD scaled non-negative integer. SVD files write these as
// decimal ("16"), hex ("0x4001"), or binary with a '#' prefix ("#101").
type Integer uint64

// UnmarshalXML implements xml.Unmarshaler.
func (i *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := parseInteger(s)
	if err != nil {
		return err
	}
	*i = Integer(v)
	return nil
}

func parseInteger(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, nil
	case strings.HasPrefix(s, "#"):
		return strconv.ParseUint(strings.ReplaceAll(s[1:], "x", "0"), 2, 64)
	default:
		// ParseUint with base 0 handles both decimal and 0x forms.
		return strconv.ParseUint(s, 0, 64)
	}
}

// Device is the root of an SVD document.
type Device struct {
	XMLName     xml.Name     `xml:"device"`
	Name        string       `xml:"name"`
	Description string       `xml:"description"`
	Version     string       `xml:"version"`
	Width       Integer      `xml:"width"`
	Peripherals []Peripheral `xml:"peripherals>peripheral"`
}

// Peripheral groups the registers of one memory-mapped block.
type Peripheral struct {
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	GroupName   string     `xml:"groupName"`
	BaseAddress Integer    `xml:"baseAddress"`
	Registers   []Register `xml:"registers>register"`
}

// Register describes a single register relative to its peripheral.
type Register struct {
	Name          string  `xml:"name"`
	Description   string  `xml:"description"`
	AddressOffset Integer `xml:"addressOffset"`
	Size          Integer `xml:"size"`
	Access        string  `xml:"access"`
	ResetValue    Integer `xml:"resetValue"`
	Fields        []Field `xml:"fields>field"`
}

// Field describes a bit field within a register.
type Field struct {
	Name        string  `xml:"name"`
	Description string  `xml:"description"`
	BitOffset   Integer `xml:"bitOffset"`
	BitWidth    Integer `xml:"bitWidth"`
	Access      string  `xml:"access"`
}

// Parse decodes an SVD document from r.
func Parse(r io.Reader) (*Device, error) {
	var dev Device
	if err := xml.NewDecoder(r).Decode(&dev); err != nil {
		return nil, fmt.Errorf("parse SVD: %w", err)
	}
	return &dev, nil
}

// ParseBytes decodes an SVD document from data.
func ParseBytes(data []byte) (*Device, error) {
	return Parse(strings.NewReader(string(data)))
}

// ParseFile decodes the SVD document at path.
func ParseFile(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Peripheral returns the named peripheral.
func (d *Device) Peripheral(name string) (*Peripheral, bool) {
	for i := range d.Peripherals {
		if d.Peripherals[i].Name == name {
			return &d.Peripherals[i], true
		}
	}
	return nil, false
}

// Register returns the named register.
func (p *Peripheral) Register(name string) (*Register, bool) {
	for i := range p.Registers {
		if p.Registers[i].Name == name {
			return &p.Registers[i], true
		}
	}
	return nil, false
}

// Address returns the register's absolute address within its peripheral.
func (p *Peripheral) Address(r *Register) uint64 {
	return uint64(p.BaseAddress) + uint64(r.AddressOffset)
}
