package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

// GotifyNotifier pushes the reminder to a Gotify server, which fans it out
// to the user's registered clients.
type GotifyNotifier struct {
	baseURL  string
	appToken string
	client   *http.Client
	log      logx.Logger
}

func NewGotify(cfg *config.GotifyNotifierConfig, log logx.Logger) (*GotifyNotifier, error) {
	if cfg == nil {
		return nil, &ConfigError{Channel: config.ChannelGotify, Reason: "gotify_push configuration not found"}
	}
	if cfg.URL == "" {
		return nil, &ConfigError{Channel: config.ChannelGotify, Reason: "url missing in configuration"}
	}
	if cfg.AppToken == "" {
		return nil, &ConfigError{Channel: config.ChannelGotify, Reason: "app_token missing in configuration"}
	}

	return &GotifyNotifier{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		appToken: cfg.AppToken,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}, nil
}

func (n *GotifyNotifier) Name() string { return config.ChannelGotify }

func (n *GotifyNotifier) Notify(ctx context.Context, msg Message) error {
	form := url.Values{
		"title":    {msg.Title},
		"message":  {msg.Body},
		"priority": {"0"},
	}

	endpoint := n.baseURL + "/message?token=" + url.QueryEscape(n.appToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return &DeliveryError{Channel: n.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{
			Channel: n.Name(),
			Err:     fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	n.log.Info("gotify notification sent", logx.String("server", n.baseURL))
	return nil
}
