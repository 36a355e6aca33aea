package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownChannel is returned by Build for a channel name no variant
// implements.
var ErrUnknownChannel = errors.New("unknown notifier channel")

// Message is the shared payload delivered to every configured channel in
// one cycle.
type Message struct {
	Title string
	Body  string
	At    time.Time
}

// Notifier is a delivery channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// ConfigError is a configuration fault: the channel cannot be built or used
// with the settings provided.
type ConfigError struct {
	Channel string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notifier %s: %s: %v", e.Channel, e.Reason, e.Err)
	}
	return fmt.Sprintf("notifier %s: %s", e.Channel, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DeliveryError is a delivery fault: the channel was built correctly but
// the transport step failed. Not retried.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notifier %s: delivery failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
