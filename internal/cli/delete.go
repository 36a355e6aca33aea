package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"friendskeeper/internal/storage"
)

func (a *app) cmdDelete(args []string) error {
	sub, rest, err := subcommand(args, "friend", "notification")
	if err != nil {
		return err
	}
	if sub == "friend" {
		return a.deleteFriend(rest)
	}
	return a.deleteNotification(rest)
}

func (a *app) deleteFriend(args []string) error {
	fs := flag.NewFlagSet("delete friend", flag.ContinueOnError)
	id := fs.Int64("id", 0, "friend ID (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}

	ctx := context.Background()
	friend, err := a.store.Friend(ctx, *id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no friend with id %d", *id)
		}
		return err
	}

	if !a.confirm(*yes, "Delete friend '%s' and all their notification events?", friend.Nickname) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}
	if err := a.store.DeleteFriend(ctx, friend.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Friend '%s' deleted.\n", friend.Nickname)
	return nil
}

func (a *app) deleteNotification(args []string) error {
	fs := flag.NewFlagSet("delete notification", flag.ContinueOnError)
	id := fs.Int64("id", 0, "notification event ID")
	friendID := fs.Int64("friend-id", 0, "friend ID whose events to delete")
	all := fs.Bool("all", false, "with -friend-id, delete delivered events too")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id == 0) == (*friendID == 0) {
		return errors.New("exactly one of -id or -friend-id is required")
	}
	if *all && *friendID == 0 {
		return errors.New("-all only applies with -friend-id")
	}

	ctx := context.Background()
	if *id != 0 {
		if !a.confirm(*yes, "Delete notification event %d?", *id) {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
		if err := a.store.DeleteNotification(ctx, *id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no notification event with id %d", *id)
			}
			return err
		}
		fmt.Fprintf(a.out, "Notification event %d deleted.\n", *id)
		return nil
	}

	scope := "pending"
	if *all {
		scope = "all"
	}
	if !a.confirm(*yes, "Delete %s notification events for friend %d?", scope, *friendID) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}
	if err := a.store.DeleteForFriend(ctx, *friendID, *all); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s notification events for friend %d.\n", scope, *friendID)
	return nil
}
