// SPDX-License-Identifier: MIT

package libregice

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// TestClient is an in-memory target used by tests and demos. Reads hit a
// plain register map, writes update it, and the map can be seeded from a
// YAML fixture.
type TestClient struct {
	registers map[uint64]uint64
	opened    bool
}

// testFixture is the on-disk shape of a register fixture:
//
//	registers:
//	  "0x40001000": 0x90
//	  "0x40001004": 1
type testFixture struct {
	Registers map[string]uint64 `yaml:"registers"`
}

// NewTestClient creates a mock target with an empty register map.
func NewTestClient() *TestClient {
	return &TestClient{registers: make(map[uint64]uint64)}
}

// NewTestClientFromYAML creates a mock target seeded from the fixture at
// path.
func NewTestClientFromYAML(path string) (*TestClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load register fixture: %w", err)
	}

	var fixture testFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse register fixture %s: %w", path, err)
	}

	c := NewTestClient()
	for addr, value := range fixture.Registers {
		a, err := strconv.ParseUint(addr, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("register fixture %s: bad address %q: %w", path, addr, err)
		}
		c.registers[a] = value
	}
	return c, nil
}

// Seed sets a register value directly.
func (c *TestClient) Seed(addr, value uint64) {
	c.registers[addr] = value
}

// Open marks the client as connected.
func (c *TestClient) Open() error {
	c.opened = true
	return nil
}

// Close marks the client as disconnected.
func (c *TestClient) Close() error {
	c.opened = false
	return nil
}

// ReadRegister returns the seeded value at addr, masked to width bits.
// Unseeded addresses read as zero.
func (c *TestClient) ReadRegister(addr uint64, width int) (uint64, error) {
	if !c.opened {
		return 0, ErrNotConnected
	}
	return c.registers[addr] & widthMask(width), nil
}

// WriteRegister stores a width-bit value at addr.
func (c *TestClient) WriteRegister(addr uint64, width int, value uint64) error {
	if !c.opened {
		return ErrNotConnected
	}
	c.registers[addr] = value & widthMask(width)
	return nil
}

func widthMask(width int) uint64 {
	if width <= 0 || width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}
