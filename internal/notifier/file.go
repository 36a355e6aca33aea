package notifier

import (
	"context"
	"fmt"
	"os"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

const defaultNotificationsPath = "./notifications.txt"

// FileNotifier appends each reminder, timestamped, to a text file.
type FileNotifier struct {
	path string
	log  logx.Logger
}

// NewFile builds the file variant. An unset path falls back to the
// documented default; whether the path is actually writable is only known
// at delivery time.
func NewFile(cfg *config.FileNotifierConfig, log logx.Logger) *FileNotifier {
	path := defaultNotificationsPath
	if cfg != nil && cfg.Path != "" {
		path = cfg.Path
	}
	return &FileNotifier{path: path, log: log}
}

func (n *FileNotifier) Name() string { return config.ChannelFile }

func (n *FileNotifier) Notify(ctx context.Context, msg Message) error {
	f, err := os.OpenFile(n.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &ConfigError{Channel: n.Name(), Reason: fmt.Sprintf("cannot open %q", n.path), Err: err}
	}
	defer f.Close()

	line := fmt.Sprintf("%s - %s\n", msg.At.Format(config.DateFormat+"_150405"), msg.Body)
	if _, err := f.WriteString(line); err != nil {
		return &ConfigError{Channel: n.Name(), Reason: fmt.Sprintf("cannot write %q", n.path), Err: err}
	}

	n.log.Info("file notification written", logx.String("path", n.path))
	return nil
}
