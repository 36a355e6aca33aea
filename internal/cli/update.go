package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"friendskeeper/internal/config"
	"friendskeeper/internal/storage"
)

func (a *app) cmdUpdate(args []string) error {
	sub, rest, err := subcommand(args, "friend", "notification")
	if err != nil {
		return err
	}
	if sub == "friend" {
		return a.updateFriend(rest)
	}
	return a.updateNotification(rest)
}

// updateFriend only toggles the active flag. Editing identity fields or
// interval bounds is done by deleting and re-adding the friend.
func (a *app) updateFriend(args []string) error {
	fs := flag.NewFlagSet("update friend", flag.ContinueOnError)
	id := fs.Int64("id", 0, "friend ID (required)")
	active := fs.String("active", "", "set the active flag: true or false")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return errors.New("-id is required")
	}
	if *active == "" {
		return errors.New("only the active flag can be updated; pass -active true|false")
	}

	var want bool
	switch *active {
	case "true":
		want = true
	case "false":
		want = false
	default:
		return fmt.Errorf("invalid -active value %q, expected true or false", *active)
	}

	ctx := context.Background()
	if err := a.store.SetFriendActive(ctx, *id, want); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no friend with id %d", *id)
		}
		return err
	}
	fmt.Fprintf(a.out, "Friend %d active flag set to %t\n", *id, want)
	return nil
}

func (a *app) updateNotification(args []string) error {
	fs := flag.NewFlagSet("update notification", flag.ContinueOnError)
	id := fs.Int64("id", 0, "notification event ID")
	friendID := fs.Int64("friend-id", 0, "friend ID whose pending event to move")
	date := fs.String("date", "", "new date as DD/MM/YY (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id == 0) == (*friendID == 0) {
		return errors.New("exactly one of -id or -friend-id is required")
	}
	if *date == "" {
		return errors.New("-date is required")
	}

	day, err := time.Parse(config.DateFormat, *date)
	if err != nil {
		return fmt.Errorf("invalid -date %q, expected DD/MM/YY: %w", *date, err)
	}
	day = storage.DateOf(day)

	ctx := context.Background()
	if *id != 0 {
		err = a.store.UpdateDate(ctx, *id, day)
	} else {
		err = a.store.UpdateDateByFriend(ctx, *friendID, day)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errors.New("no matching pending notification event")
		}
		return err
	}
	fmt.Fprintf(a.out, "Notification event moved to %s\n", day.Format(config.DateFormat))
	return nil
}
