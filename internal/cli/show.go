package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	yaml "go.yaml.in/yaml/v3"

	"friendskeeper/internal/config"
	"friendskeeper/internal/storage"
)

func (a *app) cmdShow(args []string) error {
	sub, rest, err := subcommand(args, "friends", "notifications", "config")
	if err != nil {
		return err
	}
	switch sub {
	case "friends":
		return a.showFriends(rest)
	case "notifications":
		return a.showNotifications(rest)
	default:
		return a.showConfig()
	}
}

func (a *app) showFriends(args []string) error {
	fs := flag.NewFlagSet("show friends", flag.ContinueOnError)
	includeInactive := fs.Bool("include-inactive", false, "also list inactive friends")
	if err := fs.Parse(args); err != nil {
		return err
	}

	friends, err := a.store.Friends(context.Background(), *includeInactive)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Fprintln(a.out, "No friends found.")
		return nil
	}

	fmt.Fprintln(a.out, "Friends in database:")
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNICKNAME\tMIN DAYS\tMAX DAYS\tACTIVE")
	for _, f := range friends {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%t\n", f.ID, f.Nickname, f.MinDays, f.MaxDays, f.Active)
	}
	return w.Flush()
}

func (a *app) showNotifications(args []string) error {
	fs := flag.NewFlagSet("show notifications", flag.ContinueOnError)
	friendID := fs.Int64("friend-id", 0, "only this friend's notification events")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	events, err := a.listEvents(ctx, *friendID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No notifications found.")
		return nil
	}

	fmt.Fprintln(a.out, "Coming notification events:")
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNICKNAME\tDATE\tNOTIFIED")
	for _, ev := range events {
		friend, err := a.store.Friend(ctx, ev.FriendID)
		if err != nil {
			return fmt.Errorf("resolve friend %d: %w", ev.FriendID, err)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n",
			ev.ID, friend.Nickname, ev.Date.Format(config.DateFormat), ev.AlreadyNotified)
	}
	return w.Flush()
}

func (a *app) listEvents(ctx context.Context, friendID int64) ([]storage.NotificationEvent, error) {
	if friendID != 0 {
		return a.store.NotificationsByFriend(ctx, friendID)
	}
	return a.store.Upcoming(ctx, a.nowDate())
}

func (a *app) showConfig() error {
	// Round-trip through JSON so the echoed keys match the file's
	// (snake_case), which yaml.Marshal alone would not produce.
	jb, err := json.Marshal(a.cfg)
	if err != nil {
		return err
	}
	var v any
	if err := yaml.Unmarshal(jb, &v); err != nil {
		return err
	}
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Used configuration (%s):\n%s", a.cfgPath, b)
	return nil
}
