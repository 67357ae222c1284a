package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bom-autofill/internal/browser"
	"bom-autofill/internal/config"
	"bom-autofill/internal/logger"
	"bom-autofill/internal/model"
)

var (
	// ErrNoMatch is returned when the part search yields no dropdown suggestion
	ErrNoMatch = errors.New("no dropdown match for part")
	// ErrWaitTimeout is returned when a wait times out and the timeout policy is abort
	ErrWaitTimeout = errors.New("element did not become clickable in time")
)

// Credentials used to sign in to the portal
type Credentials struct {
	Username string
	Password string
}

// Session drives one authenticated browser session against the BOM portal.
// It owns the driver, the locator table and the wait settings; nothing is global.
type Session struct {
	driver      browser.Driver
	url         string
	credentials Credentials
	locators    config.LocatorConfig
	waits       config.WaitConfig
	onNoMatch   string
	headerRows  int
	clock       browser.Clock
}

// NewSession creates a Session from the loaded configuration
func NewSession(d browser.Driver, cfg *config.Config) *Session {
	return &Session{
		driver: d,
		url:    cfg.Portal.URL,
		credentials: Credentials{
			Username: cfg.Portal.Username,
			Password: cfg.Portal.Password,
		},
		locators:   cfg.Locators,
		waits:      cfg.Wait,
		onNoMatch:  cfg.Dropdown.OnNoMatch,
		headerRows: cfg.Sheet.HeaderRows,
		clock:      browser.SystemClock,
	}
}

// WithClock replaces the clock used by waits
func (s *Session) WithClock(c browser.Clock) *Session {
	s.clock = c
	return s
}

// waitFor waits for loc and applies the timeout policy.
// It returns ErrWaitTimeout only when the policy is abort.
func (s *Session) waitFor(ctx context.Context, loc config.LocatorSpec, timeout time.Duration) (browser.WaitResult, error) {
	result, err := browser.WaitUntilClickable(ctx, s.driver, browser.Locator(loc), browser.WaitOptions{
		Timeout:      timeout,
		PollInterval: s.waits.PollInterval,
		Clock:        s.clock,
	})
	if err != nil {
		return result, err
	}

	if result == browser.WaitReady {
		logger.Debug("Page is ready! (%s)", loc)
		return result, nil
	}

	logger.Warn("Loading took too much time! (%s after %s)", loc, timeout)
	if s.waits.OnTimeout == config.OnTimeoutAbort {
		return result, fmt.Errorf("%w: %s", ErrWaitTimeout, loc)
	}
	return result, nil
}

// Login opens the portal and signs in
func (s *Session) Login(ctx context.Context) error {
	if err := s.driver.Navigate(ctx, s.url); err != nil {
		return fmt.Errorf("failed to open portal: %w", err)
	}

	result, err := s.waitFor(ctx, s.locators.LoginReady, s.waits.PageReady)
	if err != nil {
		return err
	}
	if result == browser.WaitReady {
		logger.Info("Page is ready!")
	}

	if err := s.driver.SendKeys(ctx, browser.Locator(s.locators.Username), s.credentials.Username); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}
	if err := s.driver.SendKeys(ctx, browser.Locator(s.locators.Password), s.credentials.Password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	if err := s.driver.Submit(ctx, browser.Locator(s.locators.LoginButton)); err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}

	logger.Info("Logged in to %s as %s", s.url, s.credentials.Username)
	return nil
}

// OpenBOMList clicks the BOMs tab in the sidebar
func (s *Session) OpenBOMList(ctx context.Context) error {
	if err := s.driver.Click(ctx, browser.Locator(s.locators.BOMTab)); err != nil {
		return fmt.Errorf("failed to open BOM list: %w", err)
	}
	return nil
}

// OpenCreateForm clicks the add button on the BOM list
func (s *Session) OpenCreateForm(ctx context.Context) error {
	if err := s.driver.Click(ctx, browser.Locator(s.locators.AddBOM)); err != nil {
		return fmt.Errorf("failed to open BOM creation form: %w", err)
	}
	return nil
}

// AttachAndSubmit uploads the source spreadsheet and submits the creation form
func (s *Session) AttachAndSubmit(ctx context.Context, path string) error {
	upload := browser.Locator(s.locators.Upload)
	if err := s.driver.SetUploadFiles(ctx, upload, path); err != nil {
		return fmt.Errorf("failed to attach %s: %w", path, err)
	}
	if err := s.driver.Submit(ctx, upload); err != nil {
		return fmt.Errorf("failed to submit BOM form: %w", err)
	}
	return nil
}

// NewFormSession starts filling the creation form with the rows of bom
func (s *Session) NewFormSession(bom *model.BOMFile) *FormSession {
	return &FormSession{session: s, bom: bom}
}
