// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
)

const (
	// TransportOpenOCD connects through a running OpenOCD server.
	TransportOpenOCD Transport = "openocd"
	// TransportJLink drives a SEGGER J-Link.
	TransportJLink Transport = "jlink"
	// TransportTest uses the built-in mock target.
	TransportTest Transport = "test"
	// TransportNone leaves the transport to the command line.
	TransportNone Transport = ""
)

// ErrInvalidTransport is the sentinel wrapped by InvalidTransportError.
var ErrInvalidTransport = errors.New("invalid transport")

type (
	// Transport names a way to reach the target.
	Transport string

	// InvalidTransportError is returned when a Transport value is not
	// recognized. It wraps ErrInvalidTransport for errors.Is compatibility.
	InvalidTransportError struct {
		Value Transport
	}

	// JLinkConfig holds J-Link defaults applied when the flags are not set.
	JLinkConfig struct {
		// Device is the default --jlink-device value.
		Device string `mapstructure:"device"`
		// Script is the default --jlink-script value.
		Script string `mapstructure:"script"`
	}

	// UIConfig holds terminal output preferences.
	UIConfig struct {
		// Verbose enables debug logging by default.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the regice tool configuration.
	Config struct {
		// SearchPaths are extra directories searched for SVD files.
		SearchPaths []string `mapstructure:"search_paths"`
		// DefaultTransport is used when no transport flag is given.
		DefaultTransport Transport `mapstructure:"default_transport"`
		// JLink holds J-Link defaults.
		JLink JLinkConfig `mapstructure:"jlink"`
		// UI holds output preferences.
		UI UIConfig `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidTransportError) Error() string {
	return fmt.Sprintf("%v: %q (valid: openocd, jlink, test)", ErrInvalidTransport, e.Value)
}

// Unwrap supports errors.Is(err, ErrInvalidTransport).
func (e *InvalidTransportError) Unwrap() error {
	return ErrInvalidTransport
}

// Validate checks the transport value.
func (t Transport) Validate() error {
	switch t {
	case TransportOpenOCD, TransportJLink, TransportTest, TransportNone:
		return nil
	default:
		return &InvalidTransportError{Value: t}
	}
}

// Validate checks constraints the CUE schema cannot express on its own when
// the config is assembled from defaults and environment overrides.
func (c *Config) Validate() error {
	return c.DefaultTransport.Validate()
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPaths:      nil,
		DefaultTransport: TransportNone,
		JLink:            JLinkConfig{},
		UI:               UIConfig{Verbose: false},
	}
}
