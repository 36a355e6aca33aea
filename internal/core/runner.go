// Package core runs the daily reminder cycle: find due notifications,
// render one message, fan it out, then mark and reschedule each event.
package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"friendskeeper/internal/config"
	"friendskeeper/internal/notifier"
	"friendskeeper/internal/reminder"
	"friendskeeper/internal/storage"
	"friendskeeper/pkg/logx"
)

// Runner executes one cycle at a time. It borrows store records for the
// duration of a cycle and caches nothing across cycles; mutual exclusion
// between concurrent cycles is the caller's problem (one cron entry).
type Runner struct {
	store storage.Store
	gen   *reminder.Generator
	log   logx.Logger

	cfgMu sync.RWMutex
	cfg   *config.Config

	// now and buildNotifiers are swappable for tests.
	now            func() time.Time
	buildNotifiers func(*config.Config, logx.Logger) ([]notifier.Notifier, error)
	msgSource      rand.Source
}

func NewRunner(store storage.Store, cfg *config.Config, gen *reminder.Generator, log logx.Logger) *Runner {
	if gen == nil {
		gen = reminder.New(nil)
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{
		store:          store,
		cfg:            cfg,
		gen:            gen,
		log:            log,
		now:            time.Now,
		buildNotifiers: notifier.Build,
	}
}

// SetConfig swaps the active configuration (serve-mode reload). The change
// takes effect on the next cycle; a cycle in flight keeps its snapshot.
func (r *Runner) SetConfig(cfg *config.Config) {
	r.cfgMu.Lock()
	r.cfg = cfg
	r.cfgMu.Unlock()
}

func (r *Runner) config() *config.Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.cfg
}

// SetClock fixes the runner's notion of "today".
func (r *Runner) SetClock(now func() time.Time) { r.now = now }

// SetNotifierBuilder replaces the factory used at step 3 of the cycle.
func (r *Runner) SetNotifierBuilder(f func(*config.Config, logx.Logger) ([]notifier.Notifier, error)) {
	r.buildNotifiers = f
}

// SetMessageSource fixes the randomness used for message rendering.
func (r *Runner) SetMessageSource(src rand.Source) { r.msgSource = src }

// RunCycle performs one scheduling cycle.
//
// Nothing mutates before the notifier list is built: a factory failure
// leaves every due event due, to be retried on the next invocation. After
// dispatch, each event is marked and rescheduled independently; an error on
// one does not stop the others, but it does surface.
func (r *Runner) RunCycle(ctx context.Context) error {
	now := r.now()
	today := storage.DateOf(now)
	cfg := r.config()

	due, err := r.store.DueOn(ctx, today)
	if err != nil {
		return fmt.Errorf("query due notifications: %w", err)
	}
	if len(due) == 0 {
		r.log.Info("no notifications due today", logx.Time("date", today))
		return nil
	}
	r.log.Debug("found due notifications", logx.Int("count", len(due)))

	notifiers, err := r.buildNotifiers(cfg, r.log)
	if err != nil {
		r.log.Error("cannot build notifiers, cycle aborted", logx.Err(err))
		return fmt.Errorf("build notifiers: %w", err)
	}

	builder := notifier.NewBuilder(cfg.Notifications.Message, r.store, r.msgSource)
	body, err := builder.Build(ctx, due)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	msg := notifier.Message{Title: cfg.Title(), Body: body, At: now}
	for _, n := range notifiers {
		// Channels are independent: one failing must not starve the rest.
		if err := n.Notify(ctx, msg); err != nil {
			r.log.Error("notification delivery failed",
				logx.String("channel", n.Name()),
				logx.Err(err),
			)
		}
	}

	var errs []error
	for _, ev := range due {
		if err := r.reschedule(ctx, ev, today); err != nil {
			r.log.Error("reschedule failed",
				logx.Int64("notification_id", ev.ID),
				logx.Int64("friend_id", ev.FriendID),
				logx.Err(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// reschedule retires one delivered event and creates its successor.
func (r *Runner) reschedule(ctx context.Context, ev storage.NotificationEvent, today time.Time) error {
	friend, err := r.store.Friend(ctx, ev.FriendID)
	if err != nil {
		return fmt.Errorf("friend %d: %w", ev.FriendID, err)
	}

	if err := r.store.MarkDelivered(ctx, ev.ID); err != nil {
		return fmt.Errorf("mark notification %d delivered: %w", ev.ID, err)
	}

	next, err := r.gen.NextDate(friend.MinDays, friend.MaxDays, today)
	if err != nil {
		return fmt.Errorf("draw next date for friend %d: %w", friend.ID, err)
	}

	created, err := r.store.CreateNotification(ctx, friend.ID, next)
	if err != nil {
		return fmt.Errorf("create successor for friend %d: %w", friend.ID, err)
	}

	r.log.Debug("notification rescheduled",
		logx.Int64("delivered_id", ev.ID),
		logx.Int64("new_id", created.ID),
		logx.Time("date", created.Date),
	)
	return nil
}
