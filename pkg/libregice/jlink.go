// SPDX-License-Identifier: MIT

package libregice

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// JLinkOptions configures the J-Link client.
type JLinkOptions struct {
	// Device is the target name passed to the J-Link software
	// (e.g. "STM32F407VG").
	Device string

	// Script is an optional command file executed before any register
	// access, typically to set up clocks or release resets.
	Script string

	// Exe overrides the J-Link Commander binary. Empty means "JLinkExe"
	// found on PATH.
	Exe string
}

// JLink accesses a target through the J-Link Commander binary. Each register
// access runs the binary in batch mode with a generated command file; the
// commander owns the USB session, this client only scripts it.
type JLink struct {
	opts   JLinkOptions
	opened bool

	// run is swapped in tests to avoid requiring the real binary.
	run func(cmdFile string) (string, error)
}

var jlinkMemLine = regexp.MustCompile(`^([0-9A-Fa-f]+)\s*=\s*([0-9A-Fa-f ]+)$`)

// NewJLink creates a J-Link client. Nothing is executed until Open.
func NewJLink(opts JLinkOptions) *JLink {
	c := &JLink{opts: opts}
	c.run = c.runCommander
	return c
}

// Open verifies the commander binary is available and runs the configured
// script, if any.
func (c *JLink) Open() error {
	if _, err := exec.LookPath(c.exe()); err != nil {
		return fmt.Errorf("jlink: %w", err)
	}
	c.opened = true
	if c.opts.Script != "" {
		if _, err := c.run(c.opts.Script); err != nil {
			c.opened = false
			return fmt.Errorf("jlink: run script %s: %w", c.opts.Script, err)
		}
	}
	return nil
}

// Close marks the client as disconnected. The commander holds no persistent
// session between batch runs, so there is nothing to tear down.
func (c *JLink) Close() error {
	c.opened = false
	return nil
}

// ReadRegister reads a width-bit value at addr.
func (c *JLink) ReadRegister(addr uint64, width int) (uint64, error) {
	if !c.opened {
		return 0, ErrNotConnected
	}
	out, err := c.batch(fmt.Sprintf("mem%d 0x%x, 1", width, addr))
	if err != nil {
		return 0, err
	}
	return parseJLinkMem(out)
}

// WriteRegister writes a width-bit value at addr.
func (c *JLink) WriteRegister(addr uint64, width int, value uint64) error {
	if !c.opened {
		return ErrNotConnected
	}
	_, err := c.batch(fmt.Sprintf("w%d 0x%x, 0x%x", width/8, addr, value))
	return err
}

// batch writes the commands to a temporary command file and runs the
// commander over it.
func (c *JLink) batch(commands ...string) (string, error) {
	f, err := os.CreateTemp("", "regice-jlink-*.jlink")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())

	script := strings.Join(append(commands, "exit"), "\n") + "\n"
	if _, err := f.WriteString(script); err != nil {
		f.Close()
		return "", err
	}
	f.Close()

	return c.run(f.Name())
}

func (c *JLink) runCommander(cmdFile string) (string, error) {
	args := []string{"-autoconnect", "1", "-exitonerror", "1", "-commandfile", filepath.Clean(cmdFile)}
	if c.opts.Device != "" {
		args = append(args, "-device", c.opts.Device)
	}
	out, err := exec.Command(c.exe(), args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("jlink: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (c *JLink) exe() string {
	if c.opts.Exe != "" {
		return c.opts.Exe
	}
	return "JLinkExe"
}

// parseJLinkMem extracts the first value from commander memory output, which
// prints lines like "40001000 = 00 01 02 03".
func parseJLinkMem(out string) (uint64, error) {
	for _, line := range strings.Split(out, "\n") {
		m := jlinkMemLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		hex := strings.ReplaceAll(m[2], " ", "")
		return strconv.ParseUint(hex, 16, 64)
	}
	return 0, fmt.Errorf("jlink: no memory value in commander output")
}
