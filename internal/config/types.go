package config

import (
	"time"
)

// Channel names accepted in notifications.type.
const (
	ChannelFile     = "file"
	ChannelEmail    = "email"
	ChannelGotify   = "gotify_push"
	ChannelTelegram = "telegram"
)

// DefaultTitle is used when notifications.title is empty or absent.
const DefaultTitle = "Friends keeper notification"

// DateFormat is the human-facing date layout (DD/MM/YY).
const DateFormat = "02/01/06"

// Config is the fully parsed configuration file.
//
// The file is YAML; it is coerced to JSON and strict-decoded so unknown
// keys are rejected instead of silently ignored.
type Config struct {
	Logging       LoggingConfig       `json:"logging,omitempty"`
	Database      DatabaseConfig      `json:"database,omitempty"`
	Notifications NotificationsConfig `json:"notifications"`
	Notifiers     NotifiersConfig     `json:"notifiers,omitempty"`
	Scheduler     SchedulerConfig     `json:"scheduler,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console *bool       `json:"console,omitempty"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

type DatabaseConfig struct {
	Path string `json:"path,omitempty"`
	// BusyTimeout is a Go duration string (e.g. "5s").
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// NotificationsConfig controls what gets delivered and how it reads.
//
// Type is the ordered list of delivery channels; delivery order follows it.
// Message, when set, is a template with {action} and {friend_name}
// placeholders. When unset, a random canned phrase is used.
type NotificationsConfig struct {
	Type    []string `json:"type"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message,omitempty"`
}

type NotifiersConfig struct {
	File     *FileNotifierConfig     `json:"file,omitempty"`
	Email    *EmailNotifierConfig    `json:"email,omitempty"`
	Gotify   *GotifyNotifierConfig   `json:"gotify_push,omitempty"`
	Telegram *TelegramNotifierConfig `json:"telegram,omitempty"`
}

type FileNotifierConfig struct {
	Path string `json:"path,omitempty"`
}

type EmailNotifierConfig struct {
	APIKey      string   `json:"api_key"`
	FromAddress string   `json:"from_address"`
	ToAddress   []string `json:"to_address"`
}

type GotifyNotifierConfig struct {
	URL      string `json:"url"`
	AppToken string `json:"app_token"`
	// ClientToken and CreateApp are accepted for compatibility with older
	// configs; delivery only needs the app token.
	ClientToken string `json:"client_token,omitempty"`
	CreateApp   bool   `json:"create_app,omitempty"`
}

type TelegramNotifierConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

// SchedulerConfig controls serve mode. At accepts either a five-field cron
// spec or a plain "HH:MM" local time of day.
type SchedulerConfig struct {
	At string `json:"at,omitempty"`
}

// LoggingConsole reports whether console output is enabled (default true).
func (c *Config) LoggingConsole() bool {
	if c.Logging.Console == nil {
		return true
	}
	return *c.Logging.Console
}

// Title returns the configured delivery title or the documented default.
func (c *Config) Title() string {
	if t := c.Notifications.Title; t != "" {
		return t
	}
	return DefaultTitle
}

// DatabaseBusyTimeout parses database.busy_timeout, defaulting to 5s.
func (c *Config) DatabaseBusyTimeout() time.Duration {
	d, err := time.ParseDuration(c.Database.BusyTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
