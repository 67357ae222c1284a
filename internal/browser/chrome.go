package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bom-autofill/internal/config"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// ChromeDriver drives a local Chrome through the DevTools protocol
type ChromeDriver struct {
	ctx           context.Context // browser context, every action runs below it
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	actionTimeout time.Duration
}

// NewChromeDriver launches Chrome and opens one tab
func NewChromeDriver(ctx context.Context, cfg config.BrowserConfig, logf func(string, ...interface{})) (*ChromeDriver, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.WindowSize(1600, 1000),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	ctxOpts := []chromedp.ContextOption{}
	if logf != nil {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(logf))
	}
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, ctxOpts...)

	// Run without actions starts the browser
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &ChromeDriver{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
		actionTimeout: cfg.ActionTimeout,
	}, nil
}

// run executes actions in the browser context, bounded by the action timeout
// and cancelled together with the caller's ctx
func (d *ChromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(d.ctx, d.actionTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// query maps a locator onto a chromedp selector and query option
func query(loc Locator) (string, chromedp.QueryOption, error) {
	switch loc.By {
	case config.ByXPath:
		return loc.Expr, chromedp.BySearch, nil
	case config.ByClass:
		return "." + loc.Expr, chromedp.ByQuery, nil
	case config.ByName:
		return fmt.Sprintf(`[name=%q]`, loc.Expr), chromedp.ByQuery, nil
	case config.ByID:
		return "#" + loc.Expr, chromedp.ByQuery, nil
	case config.ByCSS:
		return loc.Expr, chromedp.ByQuery, nil
	default:
		return "", nil, fmt.Errorf("unsupported locator strategy %q", loc.By)
	}
}

// findScript returns a JS expression yielding the element list of loc
func findScript(loc Locator) (string, error) {
	sel, _, err := query(loc)
	if err != nil {
		return "", err
	}
	lit, err := json.Marshal(sel)
	if err != nil {
		return "", err
	}
	if loc.By == config.ByXPath {
		return fmt.Sprintf(`(function(x){const r=document.evaluate(x,document,null,XPathResult.ORDERED_NODE_SNAPSHOT_TYPE,null);const out=[];for(let i=0;i<r.snapshotLength;i++){out.push(r.snapshotItem(i));}return out;})(%s)`, lit), nil
	}
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s))`, lit), nil
}

func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

// Clickable reports whether the first match is attached, rendered, visible and not disabled
func (d *ChromeDriver) Clickable(ctx context.Context, loc Locator) (bool, error) {
	list, err := findScript(loc)
	if err != nil {
		return false, err
	}
	script := fmt.Sprintf(`(function(els){
		const el = els[0];
		if (!el || !el.isConnected || el.disabled) return false;
		const style = window.getComputedStyle(el);
		return el.getClientRects().length > 0 && style.visibility !== 'hidden' && style.display !== 'none';
	})(%s)`, list)

	var ok bool
	if err := d.run(ctx, chromedp.Evaluate(script, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *ChromeDriver) Count(ctx context.Context, loc Locator) (int, error) {
	list, err := findScript(loc)
	if err != nil {
		return 0, err
	}
	var n int
	if err := d.run(ctx, chromedp.Evaluate(list+".length", &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *ChromeDriver) Click(ctx context.Context, loc Locator) error {
	sel, by, err := query(loc)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.Click(sel, by)); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

func (d *ChromeDriver) SendKeys(ctx context.Context, loc Locator, text string) error {
	sel, by, err := query(loc)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.SendKeys(sel, text, by)); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

func (d *ChromeDriver) Press(ctx context.Context, loc Locator, key Key) error {
	var seq string
	switch key {
	case KeyEnter:
		seq = kb.Enter
	case KeyTab:
		seq = kb.Tab
	default:
		return fmt.Errorf("unsupported key %q", key)
	}
	sel, by, err := query(loc)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.SendKeys(sel, seq, by)); err != nil {
		return fmt.Errorf("press %s in %s: %w", key, loc, err)
	}
	return nil
}

func (d *ChromeDriver) SetUploadFiles(ctx context.Context, loc Locator, paths ...string) error {
	sel, by, err := query(loc)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.SetUploadFiles(sel, paths, by)); err != nil {
		return fmt.Errorf("upload to %s: %w", loc, err)
	}
	return nil
}

func (d *ChromeDriver) Submit(ctx context.Context, loc Locator) error {
	sel, by, err := query(loc)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.Submit(sel, by)); err != nil {
		return fmt.Errorf("submit %s: %w", loc, err)
	}
	return nil
}

// Close shuts the tab and the browser process
func (d *ChromeDriver) Close() error {
	d.cancelBrowser()
	d.cancelAlloc()
	return nil
}
