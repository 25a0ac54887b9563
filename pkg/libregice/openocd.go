// SPDX-License-Identifier: MIT

package libregice

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultOpenOCDAddr is the default address of OpenOCD's TCL server.
const DefaultOpenOCDAddr = "localhost:6666"

// tclTerminator ends every command and reply on the OpenOCD TCL port.
const tclTerminator = 0x1a

// OpenOCD talks to a running OpenOCD server over its TCL port.
type OpenOCD struct {
	addr string
	conn net.Conn
	rd   *bufio.Reader
}

// NewOpenOCD creates a client for the OpenOCD TCL server at addr. An empty
// addr selects DefaultOpenOCDAddr. The connection is made by Open, not here.
func NewOpenOCD(addr string) *OpenOCD {
	if addr == "" {
		addr = DefaultOpenOCDAddr
	}
	return &OpenOCD{addr: addr}
}

// Open connects to the TCL server.
func (c *OpenOCD) Open() error {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect to openocd at %s: %w", c.addr, err)
	}
	c.conn = conn
	c.rd = bufio.NewReader(conn)
	return nil
}

// Close disconnects from the TCL server.
func (c *OpenOCD) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.rd = nil
	return err
}

// command sends one TCL command and returns the reply with the terminator
// stripped.
func (c *OpenOCD) command(cmd string) (string, error) {
	if c.conn == nil {
		return "", ErrNotConnected
	}
	if _, err := c.conn.Write(append([]byte(cmd), tclTerminator)); err != nil {
		return "", fmt.Errorf("openocd command %q: %w", cmd, err)
	}
	reply, err := c.rd.ReadString(tclTerminator)
	if err != nil {
		return "", fmt.Errorf("openocd reply for %q: %w", cmd, err)
	}
	return strings.TrimSuffix(reply, string(rune(tclTerminator))), nil
}

// ReadRegister reads a width-bit value at addr through read_memory.
func (c *OpenOCD) ReadRegister(addr uint64, width int) (uint64, error) {
	reply, err := c.command(fmt.Sprintf("read_memory 0x%x %d 1", addr, width))
	if err != nil {
		return 0, err
	}
	reply = strings.TrimSpace(reply)
	value, err := strconv.ParseUint(strings.TrimPrefix(reply, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("openocd: unexpected read_memory reply %q: %w", reply, err)
	}
	return value, nil
}

// WriteRegister writes a width-bit value at addr through write_memory.
func (c *OpenOCD) WriteRegister(addr uint64, width int, value uint64) error {
	reply, err := c.command(fmt.Sprintf("write_memory 0x%x %d {0x%x}", addr, width, value))
	if err != nil {
		return err
	}
	if reply = strings.TrimSpace(reply); reply != "" {
		return fmt.Errorf("openocd: write_memory failed: %s", reply)
	}
	return nil
}
