package modem

import (
	"log/slog"
	"time"
)

// Config carries everything an Engine needs. Allocator and Table are
// required; everything else has working defaults.
type Config struct {
	// Allocator provides endpoints and alias management.
	Allocator Allocator
	// Table is the loaded command table.
	Table Table
	// AliasPath, when non-empty, is kept pointing at the live device path
	// for the whole engine lifetime, across reboots included.
	AliasPath string
	// SettleInterval is how long the engine lingers after acknowledging a
	// reset command before it swaps transports.
	SettleInterval time.Duration
	// Logger receives engine events.
	Logger *slog.Logger
}

func (c *Config) validate() error {
	if c.Allocator == nil {
		return ErrNoAllocator
	}
	if c.Table == nil {
		return ErrNoTable
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.SettleInterval == 0 {
		c.SettleInterval = 250 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
