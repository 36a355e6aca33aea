package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"friendskeeper/internal/config"
	"friendskeeper/internal/storage"
	"friendskeeper/pkg/logx"
)

func (a *app) cmdAdd(args []string) error {
	sub, rest, err := subcommand(args, "friend", "notification")
	if err != nil {
		return err
	}
	if sub == "friend" {
		return a.addFriend(rest)
	}
	return a.addNotification(rest)
}

// addFriend creates the friend and, like the friend's whole lifecycle
// promises, their first pending reminder in the same command.
func (a *app) addFriend(args []string) error {
	fs := flag.NewFlagSet("add friend", flag.ContinueOnError)
	nickname := fs.String("nickname", "", "nickname for the friend (required)")
	name := fs.String("name", "", "friend's name")
	lastName := fs.String("last-name", "", "friend's last name")
	relationship := fs.String("relationship", "", "person relationship")
	minDays := fs.Int("min-days", 7, "minimum days between reminders")
	maxDays := fs.Int("max-days", 20, "maximum days between reminders")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *nickname == "" {
		return errors.New("-nickname is required")
	}

	ctx := context.Background()
	friend, err := a.store.CreateFriend(ctx, storage.NewFriend{
		Nickname:     *nickname,
		Name:         *name,
		LastName:     *lastName,
		Relationship: *relationship,
		MinDays:      *minDays,
		MaxDays:      *maxDays,
	})
	if err != nil {
		return err
	}

	date, err := a.gen.NextDate(friend.MinDays, friend.MaxDays, a.nowDate())
	if err != nil {
		return err
	}
	ev, err := a.store.CreateNotification(ctx, friend.ID, date)
	if err != nil {
		return err
	}

	a.log.Info("friend and notification event created",
		logx.Int64("friend_id", friend.ID),
		logx.Int64("notification_id", ev.ID),
	)
	fmt.Fprintf(a.out, "Friend '%s' added. First reminder on %s.\n",
		friend.Nickname, ev.Date.Format(config.DateFormat))
	return nil
}

func (a *app) addNotification(args []string) error {
	fs := flag.NewFlagSet("add notification", flag.ContinueOnError)
	friendID := fs.Int64("friend-id", 0, "friend ID to schedule a reminder for (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *friendID == 0 {
		return errors.New("-friend-id is required")
	}

	ctx := context.Background()
	friend, err := a.store.Friend(ctx, *friendID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no friend with id %d", *friendID)
		}
		return err
	}

	if pending, err := a.store.PendingForFriend(ctx, friend.ID); err == nil {
		fmt.Fprintf(a.out, "There is already a notification event for '%s' to be triggered at %s\n",
			friend.Nickname, pending.Date.Format(config.DateFormat))
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	date, err := a.gen.NextDate(friend.MinDays, friend.MaxDays, a.nowDate())
	if err != nil {
		return err
	}
	ev, err := a.store.CreateNotification(ctx, friend.ID, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Notification event %d created with date %s\n",
		ev.ID, ev.Date.Format(config.DateFormat))
	return nil
}
