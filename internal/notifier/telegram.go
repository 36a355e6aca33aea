package notifier

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

// TelegramNotifier sends the reminder to a Telegram chat. One-way only: no
// poller, no handlers, just Send.
type TelegramNotifier struct {
	bot  *tele.Bot
	chat tele.ChatID
	log  logx.Logger
}

func NewTelegram(cfg *config.TelegramNotifierConfig, log logx.Logger) (*TelegramNotifier, error) {
	if cfg == nil {
		return nil, &ConfigError{Channel: config.ChannelTelegram, Reason: "telegram configuration not found"}
	}
	if cfg.Token == "" {
		return nil, &ConfigError{Channel: config.ChannelTelegram, Reason: "token missing in configuration"}
	}
	if cfg.ChatID == 0 {
		return nil, &ConfigError{Channel: config.ChannelTelegram, Reason: "chat_id missing in configuration"}
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Offline: true, // no getMe round-trip; this notifier only sends
	})
	if err != nil {
		return nil, &ConfigError{Channel: config.ChannelTelegram, Reason: "cannot initialize bot", Err: err}
	}

	return &TelegramNotifier{bot: b, chat: tele.ChatID(cfg.ChatID), log: log}, nil
}

func (n *TelegramNotifier) Name() string { return config.ChannelTelegram }

func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	text := msg.Title + "\n\n" + msg.Body

	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(n.chat, text)
		done <- err
	}()

	// telebot's Send has no context variant; bound it ourselves.
	select {
	case err := <-done:
		if err != nil {
			return &DeliveryError{Channel: n.Name(), Err: err}
		}
	case <-ctx.Done():
		return &DeliveryError{Channel: n.Name(), Err: ctx.Err()}
	case <-time.After(30 * time.Second):
		return &DeliveryError{Channel: n.Name(), Err: context.DeadlineExceeded}
	}

	n.log.Info("telegram notification sent", logx.Int64("chat_id", int64(n.chat)))
	return nil
}
