package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Portal   PortalConfig   `mapstructure:"portal"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Wait     WaitConfig     `mapstructure:"wait"`
	Dropdown DropdownConfig `mapstructure:"dropdown"`
	Sheet    SheetConfig    `mapstructure:"sheet"`
	Input    InputConfig    `mapstructure:"input"`
	Locators LocatorConfig  `mapstructure:"locators"`
	Output   OutputConfig   `mapstructure:"output"`
}

// PortalConfig holds the target portal and its credentials
type PortalConfig struct {
	URL      string `mapstructure:"url"`      // Login page of the portal
	Username string `mapstructure:"username"` // Overridable with BOM_PORTAL_USERNAME
	Password string `mapstructure:"password"` // Overridable with BOM_PORTAL_PASSWORD
}

// BrowserConfig holds browser driver settings
type BrowserConfig struct {
	Driver        string        `mapstructure:"driver"`         // chromedp, playwright or dry-run
	Headless      bool          `mapstructure:"headless"`       // Run without a visible window
	ExecPath      string        `mapstructure:"exec_path"`      // Chrome binary, empty = autodetect
	ActionTimeout time.Duration `mapstructure:"action_timeout"` // Upper bound for one element lookup + action
	RunTimeout    time.Duration `mapstructure:"run_timeout"`    // Upper bound for the whole run, 0 = none
}

// WaitConfig holds the bounded element waits
type WaitConfig struct {
	PageReady    time.Duration `mapstructure:"page_ready"`    // Login page readiness
	Element      time.Duration `mapstructure:"element"`       // Dropdown and new row readiness
	PollInterval time.Duration `mapstructure:"poll_interval"` // Probe interval inside a wait
	OnTimeout    string        `mapstructure:"on_timeout"`    // proceed or abort
}

// DropdownConfig decides what happens when the part search does not yield exactly one match
type DropdownConfig struct {
	OnNoMatch string `mapstructure:"on_no_match"` // fail or best_effort
}

// SheetConfig describes where the data lives inside a BOM worksheet
type SheetConfig struct {
	TitleCell      string `mapstructure:"title_cell"`      // Cell holding the BOM name
	HeaderRows     int    `mapstructure:"header_rows"`     // Rows skipped before data starts
	PartColumn     int    `mapstructure:"part_column"`     // 0-based column of the part identifier
	QuantityColumn int    `mapstructure:"quantity_column"` // 0-based column of the quantity
	RemarksColumn  int    `mapstructure:"remarks_column"`  // 0-based column of the remarks
}

// InputConfig holds input discovery settings
type InputConfig struct {
	Dir       string `mapstructure:"dir"`       // Folder with BOM spreadsheets, empty = prompt
	Extension string `mapstructure:"extension"` // Only files with this suffix are imported
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string `mapstructure:"dir"`       // Output directory for log and report
	FileName string `mapstructure:"file_name"` // Report file name (without extension)
}

const (
	OnTimeoutProceed = "proceed"
	OnTimeoutAbort   = "abort"

	OnNoMatchFail       = "fail"
	OnNoMatchBestEffort = "best_effort"

	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
	DriverDryRun     = "dry-run"
)

// EnvPrefix is prepended to environment overrides (BOM_PORTAL_PASSWORD, ...)
const EnvPrefix = "BOM"

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// Values from a .env file next to the working directory are exported before viper reads the environment
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Printf("  Portal: %s\n", v.GetString("portal.url"))
			fmt.Printf("  Output: %s\n", v.GetString("output.dir"))
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures the values the portal layout was recorded with
func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.url", "https://aims.adonmo.com")
	v.SetDefault("portal.username", "")
	v.SetDefault("portal.password", "")

	v.SetDefault("browser.driver", DriverChromedp)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.action_timeout", 10*time.Second)
	v.SetDefault("browser.run_timeout", 30*time.Minute)

	v.SetDefault("wait.page_ready", 500*time.Millisecond)
	v.SetDefault("wait.element", 1*time.Second)
	v.SetDefault("wait.poll_interval", 100*time.Millisecond)
	v.SetDefault("wait.on_timeout", OnTimeoutProceed)

	v.SetDefault("dropdown.on_no_match", OnNoMatchFail)

	v.SetDefault("sheet.title_cell", "A1")
	v.SetDefault("sheet.header_rows", 2)
	v.SetDefault("sheet.part_column", 1)
	v.SetDefault("sheet.quantity_column", 3)
	v.SetDefault("sheet.remarks_column", 6)

	v.SetDefault("input.dir", "")
	v.SetDefault("input.extension", ".xlsx")

	for key, loc := range DefaultLocators() {
		v.SetDefault("locators."+key+".by", loc.By)
		v.SetDefault("locators."+key+".expr", loc.Expr)
	}

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "bom-import-report")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	if c.Input.Dir != "" {
		absInput, err := filepath.Abs(c.Input.Dir)
		if err != nil {
			return fmt.Errorf("failed to resolve input.dir: %w", err)
		}
		c.Input.Dir = absInput
	}

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// SetInputDir overrides the input directory (flag or interactive prompt)
func (c *Config) SetInputDir(dir string) error {
	dir = strings.Trim(strings.TrimSpace(dir), `"'`)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve input directory: %w", err)
	}
	c.Input.Dir = abs
	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path of the report with the given extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// GetLogPath returns the full path of the log file
func (c *Config) GetLogPath() string {
	return filepath.Join(c.Output.Dir, "bom_autofill.log")
}

// IsDryRun reports whether no real browser is driven
func (c *Config) IsDryRun() bool {
	return c.Browser.Driver == DriverDryRun
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input directory is not set")
	}
	info, err := os.Stat(c.Input.Dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", c.Input.Dir)
	}
	if err == nil && !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.Input.Dir)
	}

	switch c.Browser.Driver {
	case DriverChromedp, DriverPlaywright, DriverDryRun:
	default:
		return fmt.Errorf("unknown browser.driver %q (expected chromedp, playwright or dry-run)", c.Browser.Driver)
	}

	if !c.IsDryRun() {
		if c.Portal.URL == "" {
			return fmt.Errorf("portal.url cannot be empty")
		}
		if c.Portal.Username == "" || c.Portal.Password == "" {
			return fmt.Errorf("portal credentials are missing (set portal.username/password or %s_PORTAL_USERNAME/%s_PORTAL_PASSWORD)", EnvPrefix, EnvPrefix)
		}
	}

	if c.Browser.ActionTimeout <= 0 {
		return fmt.Errorf("browser.action_timeout must be positive")
	}

	if c.Wait.OnTimeout != OnTimeoutProceed && c.Wait.OnTimeout != OnTimeoutAbort {
		return fmt.Errorf("wait.on_timeout must be %q or %q", OnTimeoutProceed, OnTimeoutAbort)
	}
	if c.Wait.PollInterval <= 0 {
		return fmt.Errorf("wait.poll_interval must be positive")
	}

	if c.Dropdown.OnNoMatch != OnNoMatchFail && c.Dropdown.OnNoMatch != OnNoMatchBestEffort {
		return fmt.Errorf("dropdown.on_no_match must be %q or %q", OnNoMatchFail, OnNoMatchBestEffort)
	}

	if c.Sheet.HeaderRows < 0 {
		return fmt.Errorf("sheet.header_rows cannot be negative")
	}
	if c.Sheet.PartColumn < 0 || c.Sheet.QuantityColumn < 0 || c.Sheet.RemarksColumn < 0 {
		return fmt.Errorf("sheet columns cannot be negative")
	}

	if err := c.Locators.Validate(); err != nil {
		return err
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	return nil
}

// Print displays the current configuration, credentials masked
func (c *Config) Print() {
	password := ""
	if c.Portal.Password != "" {
		password = "********"
	}
	fmt.Println("=== BOM Autofill Configuration ===")
	fmt.Printf("Portal URL:       %s\n", c.Portal.URL)
	fmt.Printf("Username:         %s\n", c.Portal.Username)
	fmt.Printf("Password:         %s\n", password)
	fmt.Printf("Driver:           %s (headless=%v)\n", c.Browser.Driver, c.Browser.Headless)
	fmt.Printf("Waits:            page=%s element=%s on_timeout=%s\n", c.Wait.PageReady, c.Wait.Element, c.Wait.OnTimeout)
	fmt.Printf("No Match Policy:  %s\n", c.Dropdown.OnNoMatch)
	fmt.Printf("Input Directory:  %s\n", c.Input.Dir)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Println("==================================")
}
