// Package storage persists friends and their notification events in a
// local SQLite database.
//
// Each operation is a single statement or a short transaction; nothing is
// ever left half-applied. Reads of absent rows return ErrNotFound rather
// than a zero value.
package storage
