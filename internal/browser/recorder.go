package browser

import (
	"context"
	"strings"
)

// Action kinds recorded by the Recorder
const (
	ActionNavigate  = "navigate"
	ActionClickable = "clickable"
	ActionCount     = "count"
	ActionClick     = "click"
	ActionSendKeys  = "send-keys"
	ActionPress     = "press"
	ActionUpload    = "upload"
	ActionSubmit    = "submit"
	ActionClose     = "close"
)

// Action is one recorded driver call
type Action struct {
	Kind    string
	Locator Locator
	Value   string
}

// Recorder is an in-memory Driver. It records every call instead of touching a browser:
// the dry-run mode logs the recorded actions and tests assert on them.
// By default every element is clickable and every lookup matches one element.
type Recorder struct {
	Actions []Action

	// ClickableFunc overrides the Clickable answer
	ClickableFunc func(loc Locator) bool
	// CountFunc overrides the Count answer
	CountFunc func(loc Locator) int
	// FailFunc may return an error to make a call fail
	FailFunc func(a Action) error
	// Logf receives one line per recorded action
	Logf func(format string, args ...interface{})
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{Actions: make([]Action, 0)}
}

func (r *Recorder) record(ctx context.Context, a Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Actions = append(r.Actions, a)
	if r.Logf != nil && a.Kind != ActionClickable {
		if a.Value != "" {
			r.Logf("%s %s %q", a.Kind, a.Locator, a.Value)
		} else {
			r.Logf("%s %s", a.Kind, a.Locator)
		}
	}
	if r.FailFunc != nil {
		return r.FailFunc(a)
	}
	return nil
}

func (r *Recorder) Navigate(ctx context.Context, url string) error {
	return r.record(ctx, Action{Kind: ActionNavigate, Value: url})
}

func (r *Recorder) Clickable(ctx context.Context, loc Locator) (bool, error) {
	if err := r.record(ctx, Action{Kind: ActionClickable, Locator: loc}); err != nil {
		return false, err
	}
	if r.ClickableFunc != nil {
		return r.ClickableFunc(loc), nil
	}
	return true, nil
}

func (r *Recorder) Count(ctx context.Context, loc Locator) (int, error) {
	if err := r.record(ctx, Action{Kind: ActionCount, Locator: loc}); err != nil {
		return 0, err
	}
	if r.CountFunc != nil {
		return r.CountFunc(loc), nil
	}
	return 1, nil
}

func (r *Recorder) Click(ctx context.Context, loc Locator) error {
	return r.record(ctx, Action{Kind: ActionClick, Locator: loc})
}

func (r *Recorder) SendKeys(ctx context.Context, loc Locator, text string) error {
	return r.record(ctx, Action{Kind: ActionSendKeys, Locator: loc, Value: text})
}

func (r *Recorder) Press(ctx context.Context, loc Locator, key Key) error {
	return r.record(ctx, Action{Kind: ActionPress, Locator: loc, Value: string(key)})
}

func (r *Recorder) SetUploadFiles(ctx context.Context, loc Locator, paths ...string) error {
	return r.record(ctx, Action{Kind: ActionUpload, Locator: loc, Value: strings.Join(paths, ",")})
}

func (r *Recorder) Submit(ctx context.Context, loc Locator) error {
	return r.record(ctx, Action{Kind: ActionSubmit, Locator: loc})
}

func (r *Recorder) Close() error {
	r.Actions = append(r.Actions, Action{Kind: ActionClose})
	return nil
}

// Filter returns the recorded actions of one kind, optionally restricted to a locator
func (r *Recorder) Filter(kind string, loc *Locator) []Action {
	var out []Action
	for _, a := range r.Actions {
		if a.Kind != kind {
			continue
		}
		if loc != nil && a.Locator != *loc {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.Actions = r.Actions[:0]
}
