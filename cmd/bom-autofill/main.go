package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bom-autofill/internal/browser"
	"bom-autofill/internal/config"
	"bom-autofill/internal/logger"
	"bom-autofill/internal/model"
	"bom-autofill/internal/portal"
	"bom-autofill/internal/report"
	"bom-autofill/internal/sheet"
	"bom-autofill/internal/ui"
)

const (
	appName    = "BOM Autofill"
	appVersion = "1.0.0"
	appDesc    = "Creates portal BOMs from a folder of BOM spreadsheets by driving a browser"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	inputDir    string
	driverName  string
	dryRun      bool
	outputDir   string
	formats     string
	noWait      bool
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&inputDir, "dir", "", "Folder containing the BOM spreadsheets (prompted for when empty)")
	flag.StringVar(&driverName, "driver", "", "Override browser driver from config (chromedp, playwright, dry-run)")
	flag.BoolVar(&dryRun, "dry-run", false, "Record browser actions instead of driving a browser")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "excel,json", "Comma-separated report formats (excel,json,word)")
	flag.BoolVar(&noWait, "no-wait", false, "Exit without waiting for Enter")
}

func main() {
	exitCode := 1

	// Keep the console window open until Enter, even on panic
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
			exitCode = 1
		}
		if !noWait {
			waitForEnter()
		}
		os.Exit(exitCode)
	}()

	exitCode = run()
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if err := applyFlags(cfg); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	if cfg.Input.Dir == "" {
		dir, err := promptInputDir(os.Stdin, os.Stdout)
		if err != nil {
			fmt.Printf("❌ Failed to read input directory: %v\n", err)
			return 1
		}
		if err := cfg.SetInputDir(dir); err != nil {
			fmt.Printf("❌ %v\n", err)
			return 1
		}
	}

	if err := logger.Init(os.Stdout, cfg.GetLogPath(), verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}
	if verbose {
		cfg.Print()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Browser.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Browser.RunTimeout)
		defer cancel()
	}

	summary := model.NewRunSummary(cfg.Portal.URL, cfg.Browser.Driver, cfg.Input.Dir, cfg.IsDryRun())
	importErr := runImport(ctx, cfg, summary)
	summary.FinishedAt = time.Now()

	// Reports are written for failed runs too
	reportErr := writeReports(cfg, summary)

	if importErr != nil {
		logger.Error("Import failed: %v", importErr)
		logger.Info("Details in %s", logger.GetLogFilePath())
		return 1
	}
	if reportErr != nil {
		logger.Error("%v", reportErr)
		return 1
	}

	logger.Info("✅ Imported %d BOM(s), %d rows in %s. Check [%s] directory.",
		summary.Count(model.StatusImported), summary.TotalRows(), summary.Elapsed().Round(time.Second), cfg.Output.Dir)
	return 0
}

// applyFlags lets command line flags override the loaded configuration
func applyFlags(cfg *config.Config) error {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
		if err := cfg.EnsureOutputDir(); err != nil {
			return err
		}
	}
	if driverName != "" {
		cfg.Browser.Driver = driverName
	}
	if dryRun {
		cfg.Browser.Driver = config.DriverDryRun
	}
	if inputDir != "" {
		if err := cfg.SetInputDir(inputDir); err != nil {
			return err
		}
	}
	return nil
}

// promptInputDir asks once for the BOM folder
func promptInputDir(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the full path to the folder containing the BOMs: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	dir := strings.Trim(strings.TrimSpace(line), `"'`)
	if dir == "" {
		return "", fmt.Errorf("no folder given")
	}
	return dir, nil
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runImport(ctx context.Context, cfg *config.Config, summary *model.RunSummary) error {
	pipeline := ui.NewPipeline(ui.ImportPhases)
	if verbose {
		pipeline.Disable()
	}
	defer pipeline.Finish()

	// --- Phase 1: Login ---
	logger.Info("Phase 1: Signing in to %s (%s)...", cfg.Portal.URL, cfg.Browser.Driver)
	loginBar := pipeline.NextPhase(2)

	driver, err := browser.New(ctx, cfg.Browser, logger.Debug)
	if err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Warn("Failed to close browser: %v", err)
		}
	}()

	session := portal.NewSession(driver, cfg)
	if err := session.Login(ctx); err != nil {
		return err
	}
	loginBar.Increment()
	if err := session.OpenBOMList(ctx); err != nil {
		return err
	}
	loginBar.Increment()

	// --- Phase 2: Scanning ---
	logger.Info("Phase 2: Scanning %s...", cfg.Input.Dir)
	scanBar := pipeline.NextPhase(1)
	files, err := sheet.ScanDirectory(cfg.Input.Dir, cfg.Input.Extension)
	if err != nil {
		return err
	}
	scanBar.Increment()
	if len(files) == 0 {
		logger.Warn("No %s files found in %s", cfg.Input.Extension, cfg.Input.Dir)
		return nil
	}
	logger.Info("Found %d BOM file(s)", len(files))

	// --- Phase 3: Importing ---
	logger.Info("Phase 3: Importing BOMs...")
	importBar := pipeline.NextPhase(len(files))
	importer := portal.NewImporter(session, sheet.Layout(cfg.Sheet)).WithProgress(importBar)
	return importer.Run(ctx, files, summary)
}

// writeReports runs every requested writer; a failing writer does not stop the others
func writeReports(cfg *config.Config, summary *model.RunSummary) error {
	writers := report.GetWriters(report.ParseFormats(formats))
	if len(writers) == 0 {
		logger.Warn("No known report format in %q", formats)
		return nil
	}

	logger.Info("Writing run report...")
	var failed []string
	for _, w := range writers {
		if err := w.Write(summary, cfg); err != nil {
			logger.Error("%s report failed: %v", w.Format(), err)
			failed = append(failed, w.Format())
			continue
		}
		logger.Debug("%s report written", w.Format())
	}

	if len(failed) > 0 {
		return fmt.Errorf("one or more reports failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                    BOM AUTOFILL v1.0.0                    ║
║          Spreadsheet BOMs into the Inventory Portal       ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
