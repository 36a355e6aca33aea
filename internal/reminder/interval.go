// Package reminder picks the randomized gap between two reminders for the
// same friend.
package reminder

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"friendskeeper/internal/storage"
)

// ErrDegenerateRange is returned when the bounds leave nothing to draw from.
var ErrDegenerateRange = errors.New("degenerate reminder interval")

// Generator draws day counts from a friend's configured bounds.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator. Pass a fixed rand.Source for deterministic tests;
// nil seeds from the clock.
func New(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(src)}
}

// Days draws a uniform day count from the half-open range [minDays, maxDays).
//
// maxDays reads as inclusive in the configuration but is never drawn. The
// asymmetry is long-standing behavior and is kept on purpose.
func (g *Generator) Days(minDays, maxDays int) (int, error) {
	if minDays < 1 || minDays >= maxDays {
		return 0, fmt.Errorf("%w: min_days=%d max_days=%d", ErrDegenerateRange, minDays, maxDays)
	}
	return minDays + g.rng.Intn(maxDays-minDays), nil
}

// NextDate returns from plus a drawn day count, truncated to a calendar date.
func (g *Generator) NextDate(minDays, maxDays int, from time.Time) (time.Time, error) {
	d, err := g.Days(minDays, maxDays)
	if err != nil {
		return time.Time{}, err
	}
	return storage.DateOf(from).AddDate(0, 0, d), nil
}
