package browser

import (
	"context"
	"fmt"

	"bom-autofill/internal/config"
)

// Locator identifies an element on the page. It has the same shape as config.LocatorSpec,
// so a configured locator converts directly: browser.Locator(cfg.Locators.AddRow)
type Locator struct {
	By   string
	Expr string
}

func (l Locator) String() string {
	return l.By + "=" + l.Expr
}

// Key is a non-text key sent to a focused field
type Key string

const (
	KeyEnter Key = "Enter"
	KeyTab   Key = "Tab"
)

// Driver is the set of page interactions the importer needs.
// Lookups that find no element return an error; Clickable and Count never wait.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Clickable(ctx context.Context, loc Locator) (bool, error)
	Count(ctx context.Context, loc Locator) (int, error)
	Click(ctx context.Context, loc Locator) error
	SendKeys(ctx context.Context, loc Locator, text string) error
	Press(ctx context.Context, loc Locator, key Key) error
	SetUploadFiles(ctx context.Context, loc Locator, paths ...string) error
	Submit(ctx context.Context, loc Locator) error
	Close() error
}

// New starts the driver selected by cfg.Driver
func New(ctx context.Context, cfg config.BrowserConfig, logf func(string, ...interface{})) (Driver, error) {
	switch cfg.Driver {
	case config.DriverChromedp:
		return NewChromeDriver(ctx, cfg, logf)
	case config.DriverPlaywright:
		return NewPlaywrightDriver(cfg)
	case config.DriverDryRun:
		rec := NewRecorder()
		rec.Logf = logf
		return rec, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", cfg.Driver)
	}
}
