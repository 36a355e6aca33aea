// Package config loads and validates the friends keeper configuration file.
//
// The file is YAML (default ./config.yaml). Parsing is strict: unknown keys
// are a configuration fault, not a warning. A Manager wraps the parsed value
// for serve mode, where the file is watched and hot-reloaded.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ValidationError is a configuration fault: the file parsed but its content
// cannot be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

var knownChannels = map[string]bool{
	ChannelFile:     true,
	ChannelEmail:    true,
	ChannelGotify:   true,
	ChannelTelegram: true,
}

// KnownChannel reports whether name is a supported delivery channel.
func KnownChannel(name string) bool { return knownChannels[name] }

// Parse decodes raw YAML bytes into a Config without committing defaults.
func Parse(data []byte) (*Config, error) {
	jb, err := coerceToJSONBytes(data)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// reject trailing tokens (e.g. concatenated documents)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, errors.New("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// Load reads, parses, defaults and validates the configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./friends_keeper.db"
	}
	if c.Scheduler.At == "" {
		c.Scheduler.At = "08:00"
	}
}

// Validate checks the parts of the configuration every command depends on.
// Channel-specific settings are checked again at notifier construction, so
// a config that never uses a channel may leave its block out entirely.
func (c *Config) Validate() error {
	if len(c.Notifications.Type) == 0 {
		return &ValidationError{Field: "notifications.type", Reason: "at least one delivery channel is required"}
	}
	seen := map[string]bool{}
	for _, name := range c.Notifications.Type {
		if !knownChannels[name] {
			return &ValidationError{Field: "notifications.type", Reason: fmt.Sprintf("unsupported channel %q", name)}
		}
		if seen[name] {
			return &ValidationError{Field: "notifications.type", Reason: fmt.Sprintf("channel %q listed twice", name)}
		}
		seen[name] = true
	}
	if c.Database.BusyTimeout != "" {
		if _, err := time.ParseDuration(c.Database.BusyTimeout); err != nil {
			return &ValidationError{Field: "database.busy_timeout", Reason: err.Error()}
		}
	}
	return nil
}
