package notifier

import (
	"context"

	"github.com/resend/resend-go/v3"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

// EmailNotifier sends the reminder by email through Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     []string
	log    logx.Logger
}

func NewEmail(cfg *config.EmailNotifierConfig, log logx.Logger) (*EmailNotifier, error) {
	if cfg == nil {
		return nil, &ConfigError{Channel: config.ChannelEmail, Reason: "email configuration not found"}
	}
	if cfg.APIKey == "" {
		return nil, &ConfigError{Channel: config.ChannelEmail, Reason: "api_key missing in configuration"}
	}
	if cfg.FromAddress == "" {
		return nil, &ConfigError{Channel: config.ChannelEmail, Reason: "from_address missing in configuration"}
	}
	if len(cfg.ToAddress) == 0 {
		return nil, &ConfigError{Channel: config.ChannelEmail, Reason: "to_address missing in configuration"}
	}

	return &EmailNotifier{
		client: resend.NewClient(cfg.APIKey),
		from:   cfg.FromAddress,
		to:     cfg.ToAddress,
		log:    log,
	}, nil
}

func (n *EmailNotifier) Name() string { return config.ChannelEmail }

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: msg.Title,
		Text:    msg.Body,
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}

	n.log.Info("email notification sent",
		logx.String("email_id", sent.Id),
		logx.Int("recipients", len(n.to)),
	)
	return nil
}
