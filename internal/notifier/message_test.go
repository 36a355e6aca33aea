package notifier

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"friendskeeper/internal/storage"
)

type fakeResolver map[int64]storage.Friend

func (r fakeResolver) Friend(_ context.Context, id int64) (storage.Friend, error) {
	f, ok := r[id]
	if !ok {
		return storage.Friend{}, storage.ErrNotFound
	}
	return f, nil
}

func eventsFor(ids ...int64) []storage.NotificationEvent {
	out := make([]storage.NotificationEvent, 0, len(ids))
	for i, id := range ids {
		out = append(out, storage.NotificationEvent{ID: int64(i + 1), FriendID: id})
	}
	return out
}

func TestBuildNamesEveryDueFriend(t *testing.T) {
	friends := fakeResolver{
		1: {ID: 1, Nickname: "alice"},
		2: {ID: 2, Nickname: "bob"},
		3: {ID: 3, Nickname: "carol"},
	}
	b := NewBuilder("{action} {friend_name}", friends, rand.NewSource(1))

	body, err := b.Build(context.Background(), eventsFor(1, 2, 3))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(body, "alice, bob, carol") {
		t.Fatalf("expected all nicknames joined by comma, got %q", body)
	}
}

func TestBuildCustomTemplate(t *testing.T) {
	friends := fakeResolver{1: {ID: 1, Nickname: "alice"}}
	b := NewBuilder("Please {action} {friend_name} today", friends, rand.NewSource(1))

	body, err := b.Build(context.Background(), eventsFor(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(body, "Please ") || !strings.HasSuffix(body, " alice today") {
		t.Fatalf("template not honored: %q", body)
	}
}

func TestBuildActionIsUppercasedVerb(t *testing.T) {
	friends := fakeResolver{1: {ID: 1, Nickname: "alice"}}
	b := NewBuilder("{action}", friends, rand.NewSource(3))

	body, err := b.Build(context.Background(), eventsFor(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	switch body {
	case "MESSAGE", "CALL", "TEXT":
	default:
		t.Fatalf("unexpected action %q", body)
	}
}

func TestBuildFallsBackToCannedPhrases(t *testing.T) {
	friends := fakeResolver{1: {ID: 1, Nickname: "alice"}}
	b := NewBuilder("", friends, rand.NewSource(5))

	body, err := b.Build(context.Background(), eventsFor(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(body, "alice") {
		t.Fatalf("canned phrase does not name the friend: %q", body)
	}
	if strings.Contains(body, "{action}") || strings.Contains(body, "{friend_name}") {
		t.Fatalf("unexpanded placeholder in %q", body)
	}
}

func TestBuildPropagatesLookupFault(t *testing.T) {
	friends := fakeResolver{1: {ID: 1, Nickname: "alice"}}
	b := NewBuilder("", friends, rand.NewSource(1))

	_, err := b.Build(context.Background(), eventsFor(1, 99))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(fmt.Sprint(err), "99") {
		t.Fatalf("error does not identify the missing friend: %v", err)
	}
}
