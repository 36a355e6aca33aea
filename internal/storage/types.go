package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is a lookup fault: the referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNicknameTaken is returned when creating a friend with a nickname
	// that is already in use.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrPendingExists is returned when creating a notification event for a
	// friend that already has an undelivered one. A friend has at most one
	// pending reminder at a time; the schema enforces it.
	ErrPendingExists = errors.New("friend already has a pending notification")
	// ErrInvalidInterval is returned when friend reminder bounds do not
	// satisfy 1 <= min_days < max_days.
	ErrInvalidInterval = errors.New("reminder interval requires 1 <= min_days < max_days")
)

// dbDateLayout is how due dates are stored; lexical order == date order.
const dbDateLayout = "2006-01-02"

// Friend is a contact tracked for periodic reminders.
type Friend struct {
	ID           int64
	Nickname     string
	Name         string
	LastName     string
	Relationship string
	MinDays      int
	MaxDays      int
	Active       bool
}

// NewFriend carries the fields of a friend being created.
type NewFriend struct {
	Nickname     string
	Name         string
	LastName     string
	Relationship string
	MinDays      int
	MaxDays      int
}

// NotificationEvent is one scheduled reminder tied to a friend and a date.
type NotificationEvent struct {
	ID              int64
	FriendID        int64
	Date            time.Time
	AlreadyNotified bool
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FriendStore is CRUD over friends.
type FriendStore interface {
	CreateFriend(ctx context.Context, f NewFriend) (Friend, error)
	Friend(ctx context.Context, id int64) (Friend, error)
	FriendByNickname(ctx context.Context, nickname string) (Friend, error)
	// Friends lists friends ordered by id. Inactive friends are excluded
	// unless includeInactive is set.
	Friends(ctx context.Context, includeInactive bool) ([]Friend, error)
	SetFriendActive(ctx context.Context, id int64, active bool) error
	// DeleteFriend removes the friend and all of its notification events.
	DeleteFriend(ctx context.Context, id int64) error
}

// NotificationStore is CRUD plus the date/flag queries the runner needs.
type NotificationStore interface {
	Notification(ctx context.Context, id int64) (NotificationEvent, error)
	// DueOn returns undelivered events whose date equals day.
	DueOn(ctx context.Context, day time.Time) ([]NotificationEvent, error)
	NotificationsByFriend(ctx context.Context, friendID int64) ([]NotificationEvent, error)
	// PendingForFriend returns the friend's undelivered event, or ErrNotFound.
	PendingForFriend(ctx context.Context, friendID int64) (NotificationEvent, error)
	// Upcoming returns events dated on or after from, ordered by date.
	Upcoming(ctx context.Context, from time.Time) ([]NotificationEvent, error)
	CreateNotification(ctx context.Context, friendID int64, day time.Time) (NotificationEvent, error)
	MarkDelivered(ctx context.Context, id int64) error
	UpdateDate(ctx context.Context, id int64, day time.Time) error
	UpdateDateByFriend(ctx context.Context, friendID int64, day time.Time) error
	DeleteNotification(ctx context.Context, id int64) error
	// DeleteForFriend removes the friend's events; pending only unless all.
	DeleteForFriend(ctx context.Context, friendID int64, all bool) error
}

// Store is the persistence handle threaded through commands and the runner.
type Store interface {
	FriendStore
	NotificationStore
	Close() error
}

// Config configures the SQLite backend.
type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}
