// SPDX-License-Identifier: MIT

// Package libregice provides the device clients the regice tools talk to and
// the bootstrap plugin that turns parsed transport flags into a connected
// client.
//
// The clients are deliberately shallow: they open a transport and move
// register-sized words. Register decoding lives with the SVD model, and
// anything smarter than read/write belongs to the tools.
package libregice

import "errors"

// ErrNotConnected is returned when a register access is attempted before
// Open or after Close.
var ErrNotConnected = errors.New("libregice: client not connected")

// ErrNoTransport is returned by the bootstrap plugin when none of the
// transport selection flags was set.
var ErrNoTransport = errors.New("libregice: no transport selected (use --openocd, --jlink or --test)")

// Client is a connected debug target. Widths are in bits; 8, 16 and 32 are
// what every supported transport handles.
type Client interface {
	// Open establishes the transport connection.
	Open() error

	// Close releases the transport. Closing an unopened client is a no-op.
	Close() error

	// ReadRegister reads a width-bit value at addr.
	ReadRegister(addr uint64, width int) (uint64, error)

	// WriteRegister writes a width-bit value at addr.
	WriteRegister(addr uint64, width int, value uint64) error
}
