package notifier

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"friendskeeper/internal/storage"
)

// actions is the fixed vocabulary one verb is drawn from, uppercased.
var actions = []string{"message", "call", "text"}

// remindingNotes are the canned phrasings used when no custom template is
// configured. Placeholders match the configuration file's.
var remindingNotes = []string{
	"I know you’re busy managing managing life, keeping friends is important so, {action} {friend_name}",
	"Just a friendly follow-up. Please, {action} {friend_name}",
	"Remember to {action} {friend_name}",
	"You need to {action} {friend_name}",
	"{action} {friend_name}",
	"Hey U! {action} {friend_name} NOW",
	"SOS!!!!\n{action} {friend_name}",
}

// FriendResolver resolves an event's friend_id to the friend record.
// Satisfied by storage.Store.
type FriendResolver interface {
	Friend(ctx context.Context, id int64) (storage.Friend, error)
}

// Builder renders the reminder text for one due batch.
type Builder struct {
	// Template, when non-empty, overrides the canned phrasings. It may use
	// {action} and {friend_name}.
	Template string

	friends FriendResolver
	rng     *rand.Rand
}

// NewBuilder creates a Builder. Pass a fixed rand.Source for deterministic
// output in tests; nil seeds from the clock.
func NewBuilder(template string, friends FriendResolver, src rand.Source) *Builder {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Builder{Template: template, friends: friends, rng: rand.New(src)}
}

// Build resolves every event's friend and renders one message naming them
// all, joined by ", ".
//
// A friend that no longer exists is a broken relation between the stores,
// not something to skip quietly; the lookup failure propagates.
func (b *Builder) Build(ctx context.Context, events []storage.NotificationEvent) (string, error) {
	nicknames := make([]string, 0, len(events))
	for _, ev := range events {
		f, err := b.friends.Friend(ctx, ev.FriendID)
		if err != nil {
			return "", fmt.Errorf("resolve friend %d for notification %d: %w", ev.FriendID, ev.ID, err)
		}
		nicknames = append(nicknames, f.Nickname)
	}

	action := strings.ToUpper(actions[b.rng.Intn(len(actions))])
	template := b.Template
	if template == "" {
		template = remindingNotes[b.rng.Intn(len(remindingNotes))]
	}

	r := strings.NewReplacer(
		"{action}", action,
		"{friend_name}", strings.Join(nicknames, ", "),
	)
	return r.Replace(template), nil
}
