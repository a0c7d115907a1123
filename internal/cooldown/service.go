package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
)

// Tracker records the last event time per subject key and enforces a minimum
// window between events. Every backend makes the check and the update one
// atomic unit per key.
type Tracker interface {
	// CheckAndReserve records now for key if the window has elapsed, otherwise
	// returns ErrOnCooldown with the remaining time and leaves the entry alone.
	CheckAndReserve(ctx context.Context, key string, window time.Duration, now time.Time) error

	// Enforce is CheckAndReserve with an action in the middle: fn only runs when
	// the key is eligible, and now is only recorded if fn succeeds. Concurrent
	// callers on the same key cannot both run fn within one window. If fn
	// succeeds but the timestamp cannot be stored, the error is a *RecordError.
	Enforce(ctx context.Context, key string, window time.Duration, now time.Time, fn func() error) error

	// Remaining reports how long key is still blocked. Read only.
	Remaining(ctx context.Context, key string, window time.Duration, now time.Time) (time.Duration, error)

	// Record moves the entry for key forward to at. An earlier timestamp never
	// replaces a later one.
	Record(ctx context.Context, key string, at time.Time) error

	// Reset removes the entry for key (admin/testing)
	Reset(ctx context.Context, key string) error

	// LastAt returns the last recorded event time, or nil if none
	LastAt(ctx context.Context, key string) (*time.Time, error)
}

var ErrInvalidWindow = errors.New(ErrMsgInvalidWindow)

// ErrOnCooldown is returned when the subject is still inside its window
type ErrOnCooldown struct {
	Subject   string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % SecondsPerMinute

	if minutes > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, e.Subject, minutes, seconds)
	}
	return fmt.Sprintf(ErrFmtCooldownSecondsOnly, e.Subject, seconds)
}

// Is allows errors.Is() to match any ErrOnCooldown as well as domain.ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	if target == domain.ErrOnCooldown {
		return true
	}
	_, ok := target.(ErrOnCooldown)
	return ok
}

// RecordError is returned by Enforce when fn succeeded but the new timestamp
// could not be stored. The action has already happened; callers must not
// treat it as a failed attempt.
type RecordError struct {
	Subject string
	Err     error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf(ErrMsgActionNotRecorded, e.Subject, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// remaining returns how much of window is left after last. The window is
// closed-open: at exactly last+window the subject is eligible again.
func remaining(last *time.Time, window time.Duration, now time.Time) time.Duration {
	if last == nil {
		return 0
	}
	elapsed := now.Sub(*last)
	if elapsed < window {
		return window - elapsed
	}
	return 0
}

func validateWindow(window time.Duration) error {
	if window <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWindow, window)
	}
	return nil
}

func noop() error { return nil }
