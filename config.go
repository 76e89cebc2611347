package main

import (
	"flag"
	"os"
	"runtime"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// CommandsPath is the command table document (JSON or YAML)
	CommandsPath string
	// TargetLink is the stable alias path clients open (e.g. "/dev/ttyUSB0");
	// empty disables the alias
	TargetLink string
	// SettleMs is how long the device lingers after acknowledging a reset
	// before the transport swap
	SettleMs int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values. The default alias path
// matches what modem-driving software usually expects: /dev/ttyUSB0 on
// Linux, a file in the working directory elsewhere.
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.CommandsPath = "commands.json"
		if runtime.GOOS == "linux" {
			c.TargetLink = "/dev/ttyUSB0"
		} else {
			c.TargetLink = "./ttyUSB0"
		}
		c.SettleMs = 250
		c.LogLevel = "info"
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if path := os.Getenv("FAKE_ATC_COMMANDS"); path != "" {
			c.CommandsPath = path
		}

		if target := os.Getenv("FAKE_ATC_TARGET"); target != "" {
			c.TargetLink = target
		}

		if settle := os.Getenv("FAKE_ATC_SETTLE_MS"); settle != "" {
			if ms, err := strconv.Atoi(settle); err == nil {
				c.SettleMs = ms
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "config":
				c.CommandsPath = f.Value.String()
			case "target":
				c.TargetLink = f.Value.String()
			case "no-link":
				if f.Value.String() == "true" {
					c.TargetLink = ""
				}
			case "settle-ms":
				if ms, err := strconv.Atoi(f.Value.String()); err == nil {
					c.SettleMs = ms
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			}
		})
		return nil
	}
}
