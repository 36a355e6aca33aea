// Package notifier delivers a rendered reminder through one or more
// channels.
//
// Every variant implements the same one-method capability; the runner fans
// a single message out to whatever the configuration lists, in order, and
// never needs to know which channels are behind it.
package notifier
