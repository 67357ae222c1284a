package browser

import (
	"context"
	"fmt"

	"bom-autofill/internal/config"
	"bom-autofill/internal/logger"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver drives Chromium through Playwright
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// NewPlaywrightDriver starts Playwright, launches Chromium and opens one page
func NewPlaywrightDriver(cfg config.BrowserConfig) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.ExecPath != "" {
		launch.ExecutablePath = playwright.String(cfg.ExecPath)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.ActionTimeout.Milliseconds()))

	return &PlaywrightDriver{pw: pw, browser: browser, page: page}, nil
}

// selector maps a locator onto a Playwright selector engine
func selector(loc Locator) (string, error) {
	switch loc.By {
	case config.ByXPath:
		return "xpath=" + loc.Expr, nil
	case config.ByClass:
		return "css=." + loc.Expr, nil
	case config.ByName:
		return fmt.Sprintf(`css=[name=%q]`, loc.Expr), nil
	case config.ByID:
		return "css=#" + loc.Expr, nil
	case config.ByCSS:
		return "css=" + loc.Expr, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", loc.By)
	}
}

// first resolves the first match of loc; Playwright calls do not take a context,
// so cancellation is checked before each one
func (d *PlaywrightDriver) first(ctx context.Context, loc Locator) (playwright.Locator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sel, err := selector(loc)
	if err != nil {
		return nil, err
	}
	return d.page.Locator(sel).First(), nil
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (d *PlaywrightDriver) Clickable(ctx context.Context, loc Locator) (bool, error) {
	n, err := d.Count(ctx, loc)
	if err != nil || n == 0 {
		return false, err
	}
	el, err := d.first(ctx, loc)
	if err != nil {
		return false, err
	}
	visible, err := el.IsVisible()
	if err != nil || !visible {
		return false, err
	}
	return el.IsEnabled()
}

func (d *PlaywrightDriver) Count(ctx context.Context, loc Locator) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sel, err := selector(loc)
	if err != nil {
		return 0, err
	}
	return d.page.Locator(sel).Count()
}

func (d *PlaywrightDriver) Click(ctx context.Context, loc Locator) error {
	el, err := d.first(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

func (d *PlaywrightDriver) SendKeys(ctx context.Context, loc Locator, text string) error {
	el, err := d.first(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Type(text); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

func (d *PlaywrightDriver) Press(ctx context.Context, loc Locator, key Key) error {
	el, err := d.first(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Press(string(key)); err != nil {
		return fmt.Errorf("press %s in %s: %w", key, loc, err)
	}
	return nil
}

func (d *PlaywrightDriver) SetUploadFiles(ctx context.Context, loc Locator, paths ...string) error {
	el, err := d.first(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.SetInputFiles(paths); err != nil {
		return fmt.Errorf("upload to %s: %w", loc, err)
	}
	return nil
}

// Submit submits the form owning the element (or the element itself when it is a form)
func (d *PlaywrightDriver) Submit(ctx context.Context, loc Locator) error {
	el, err := d.first(ctx, loc)
	if err != nil {
		return err
	}
	if _, err := el.Evaluate("el => (el.form || el).submit()", nil); err != nil {
		return fmt.Errorf("submit %s: %w", loc, err)
	}
	return nil
}

func (d *PlaywrightDriver) Close() error {
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			logger.Warn("Error closing browser: %v", err)
		}
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			return fmt.Errorf("error stopping playwright: %w", err)
		}
	}
	return nil
}
