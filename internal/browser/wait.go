package browser

import (
	"context"
	"time"
)

// WaitResult is the outcome of a bounded element wait
type WaitResult int

const (
	WaitReady WaitResult = iota
	WaitTimedOut
)

func (r WaitResult) String() string {
	switch r {
	case WaitReady:
		return "ready"
	case WaitTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Clock abstracts time so waits can be tested without sleeping
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SystemClock is the wall clock
var SystemClock Clock = systemClock{}

// WaitOptions bounds a wait
type WaitOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	Clock        Clock
}

// WaitUntilClickable polls the driver until the element is present, visible and enabled,
// or the timeout elapses. A timeout is reported as WaitTimedOut, not as an error; the
// caller decides whether to go on. Probe errors count as "not ready yet". Only a
// cancelled context produces an error.
func WaitUntilClickable(ctx context.Context, d Driver, loc Locator, opts WaitOptions) (WaitResult, error) {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	deadline := clock.Now().Add(opts.Timeout)
	for {
		ok, err := d.Clickable(ctx, loc)
		if err == nil && ok {
			return WaitReady, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return WaitTimedOut, ctxErr
		}

		remaining := deadline.Sub(clock.Now())
		if remaining <= 0 {
			return WaitTimedOut, nil
		}
		if remaining < poll {
			poll = remaining
		}
		if err := clock.Sleep(ctx, poll); err != nil {
			return WaitTimedOut, err
		}
	}
}
