package notifier

import (
	"fmt"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

// Build constructs one notifier per entry of notifications.type, in the
// order listed. Delivery order follows construction order.
//
// Any unknown channel or channel-specific configuration fault aborts the
// whole list: silently dropping a channel the user asked for would be a
// surprising failure mode.
func Build(cfg *config.Config, log logx.Logger) ([]Notifier, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	notifiers := make([]Notifier, 0, len(cfg.Notifications.Type))
	for _, name := range cfg.Notifications.Type {
		var (
			n   Notifier
			err error
		)
		switch name {
		case config.ChannelFile:
			n = NewFile(cfg.Notifiers.File, log)
		case config.ChannelEmail:
			n, err = NewEmail(cfg.Notifiers.Email, log)
		case config.ChannelGotify:
			n, err = NewGotify(cfg.Notifiers.Gotify, log)
		case config.ChannelTelegram:
			n, err = NewTelegram(cfg.Notifiers.Telegram, log)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
		if err != nil {
			return nil, err
		}

		log.Debug("notifier configured", logx.String("channel", name))
		notifiers = append(notifiers, n)
	}
	return notifiers, nil
}
