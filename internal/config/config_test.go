package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  console: false
  file:
    enabled: true
    path: /var/log/keeper.log
database:
  path: /data/keeper.db
  busy_timeout: 10s
notifications:
  type: [gotify_push, file]
  title: Stay in touch
  message: "{action} {friend_name} soon"
notifiers:
  file:
    path: /data/notifications.txt
  gotify_push:
    url: https://gotify.example
    app_token: tok
scheduler:
  at: "09:30"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.LoggingConsole() {
		t.Fatalf("logging not parsed: %+v", cfg.Logging)
	}
	if cfg.Database.Path != "/data/keeper.db" || cfg.DatabaseBusyTimeout() != 10*time.Second {
		t.Fatalf("database not parsed: %+v", cfg.Database)
	}
	if len(cfg.Notifications.Type) != 2 || cfg.Notifications.Type[0] != ChannelGotify {
		t.Fatalf("channels not parsed: %+v", cfg.Notifications.Type)
	}
	if cfg.Title() != "Stay in touch" {
		t.Fatalf("unexpected title %q", cfg.Title())
	}
	if cfg.Notifiers.Gotify == nil || cfg.Notifiers.Gotify.AppToken != "tok" {
		t.Fatalf("gotify block not parsed: %+v", cfg.Notifiers.Gotify)
	}
	if cfg.Scheduler.At != "09:30" {
		t.Fatalf("unexpected schedule %q", cfg.Scheduler.At)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
notifications:
  type: [file]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default level info, got %q", cfg.Logging.Level)
	}
	if !cfg.LoggingConsole() {
		t.Fatalf("expected console logging by default")
	}
	if cfg.Database.Path != "./friends_keeper.db" {
		t.Fatalf("unexpected default db path %q", cfg.Database.Path)
	}
	if cfg.DatabaseBusyTimeout() != 5*time.Second {
		t.Fatalf("unexpected default busy timeout %v", cfg.DatabaseBusyTimeout())
	}
	if cfg.Title() != DefaultTitle {
		t.Fatalf("unexpected default title %q", cfg.Title())
	}
	if cfg.Scheduler.At != "08:00" {
		t.Fatalf("unexpected default schedule %q", cfg.Scheduler.At)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
notifications:
  type: [file]
  titel: typo
`)

	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			"no channels",
			`database: {path: ./x.db}`,
			"notifications.type",
		},
		{
			"unknown channel",
			"notifications:\n  type: [smoke_signal]",
			"notifications.type",
		},
		{
			"duplicate channel",
			"notifications:\n  type: [file, file]",
			"notifications.type",
		},
		{
			"bad busy timeout",
			"notifications:\n  type: [file]\ndatabase:\n  busy_timeout: soon",
			"database.busy_timeout",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			_, err := Load(path)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, vErr.Field)
			}
		})
	}
}

func TestKnownChannel(t *testing.T) {
	for _, name := range []string{ChannelFile, ChannelEmail, ChannelGotify, ChannelTelegram} {
		if !KnownChannel(name) {
			t.Fatalf("expected %q to be known", name)
		}
	}
	if KnownChannel("smoke_signal") {
		t.Fatalf("unexpected known channel")
	}
}
