package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"friendskeeper/internal/config"
	"friendskeeper/pkg/logx"
)

func TestNewGotifyConfigFaults(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.GotifyNotifierConfig
	}{
		{"missing block", nil},
		{"missing url", &config.GotifyNotifierConfig{AppToken: "tok"}},
		{"missing app token", &config.GotifyNotifierConfig{URL: "https://gotify.example"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGotify(tc.cfg, logx.Nop())
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Channel != config.ChannelGotify {
				t.Fatalf("unexpected channel %q", cfgErr.Channel)
			}
		})
	}
}

func TestGotifyNotifyPostsMessage(t *testing.T) {
	var gotToken, gotTitle, gotBody, gotPriority string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/message" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.URL.Query().Get("token")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTitle = r.PostForm.Get("title")
		gotBody = r.PostForm.Get("message")
		gotPriority = r.PostForm.Get("priority")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, err := NewGotify(&config.GotifyNotifierConfig{URL: srv.URL + "/", AppToken: "secret"}, logx.Nop())
	if err != nil {
		t.Fatalf("NewGotify: %v", err)
	}

	msg := Message{Title: "Friends keeper notification", Body: "CALL alice", At: time.Now()}
	if err := n.Notify(context.Background(), msg); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if gotToken != "secret" {
		t.Fatalf("unexpected token %q", gotToken)
	}
	if gotTitle != msg.Title || gotBody != msg.Body {
		t.Fatalf("unexpected payload title=%q body=%q", gotTitle, gotBody)
	}
	if gotPriority != "0" {
		t.Fatalf("unexpected priority %q", gotPriority)
	}
}

func TestGotifyNotifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	n, err := NewGotify(&config.GotifyNotifierConfig{URL: srv.URL, AppToken: "bad"}, logx.Nop())
	if err != nil {
		t.Fatalf("NewGotify: %v", err)
	}

	err = n.Notify(context.Background(), Message{Body: "x", At: time.Now()})
	var delErr *DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if delErr.Channel != config.ChannelGotify {
		t.Fatalf("unexpected channel %q", delErr.Channel)
	}
}

func TestGotifyNotifyUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n, err := NewGotify(&config.GotifyNotifierConfig{URL: srv.URL, AppToken: "tok"}, logx.Nop())
	if err != nil {
		t.Fatalf("NewGotify: %v", err)
	}
	err = n.Notify(context.Background(), Message{Body: "x", At: time.Now()})
	var delErr *DeliveryError
	if !errors.As(err, &delErr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
}
