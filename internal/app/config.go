package app

import (
	"touchdeck/internal/config"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug bool

	// Path to a single config file, bypassing the layered lookup
	ConfigPath string

	// Override for the touch event FIFO path from the command line
	InputPath string

	// Loaded surface configuration
	TouchdeckConfig *config.TouchdeckConfig
}

// NewConfig creates a new application configuration
func NewConfig(noTUI, debug bool) *Config {
	return &Config{
		NoTUI: noTUI,
		Debug: debug,
	}
}
