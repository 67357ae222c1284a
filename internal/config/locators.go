package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Locator strategies understood by the browser drivers
const (
	ByXPath = "xpath"
	ByClass = "class"
	ByName  = "name"
	ByID    = "id"
	ByCSS   = "css"
)

// RowPlaceholder is substituted with a 1-based form table row in row-scoped locators
const RowPlaceholder = "{row}"

// LocatorSpec identifies one element of the portal page
type LocatorSpec struct {
	By   string `mapstructure:"by"`   // xpath, class, name, id or css
	Expr string `mapstructure:"expr"` // Expression in that addressing scheme
}

// ForRow returns a copy with the row placeholder replaced
func (l LocatorSpec) ForRow(row int) LocatorSpec {
	return LocatorSpec{By: l.By, Expr: strings.ReplaceAll(l.Expr, RowPlaceholder, strconv.Itoa(row))}
}

// IsRowScoped reports whether the expression expects a row number
func (l LocatorSpec) IsRowScoped() bool {
	return strings.Contains(l.Expr, RowPlaceholder)
}

func (l LocatorSpec) String() string {
	return l.By + "=" + l.Expr
}

// LocatorConfig is the locator table of the portal pages
type LocatorConfig struct {
	LoginReady    LocatorSpec `mapstructure:"login_ready"`
	Username      LocatorSpec `mapstructure:"username"`
	Password      LocatorSpec `mapstructure:"password"`
	LoginButton   LocatorSpec `mapstructure:"login_button"`
	BOMTab        LocatorSpec `mapstructure:"bom_tab"`
	AddBOM        LocatorSpec `mapstructure:"add_bom"`
	BOMName       LocatorSpec `mapstructure:"bom_name"`
	PartSelect    LocatorSpec `mapstructure:"part_select"`
	PartSearch    LocatorSpec `mapstructure:"part_search"`
	PartResults   LocatorSpec `mapstructure:"part_results"`
	QuantityField LocatorSpec `mapstructure:"quantity"`
	RemarksField  LocatorSpec `mapstructure:"remarks"`
	AddRow        LocatorSpec `mapstructure:"add_row"`
	RemoveRow     LocatorSpec `mapstructure:"remove_row"`
	Upload        LocatorSpec `mapstructure:"upload"`
}

// DefaultLocators returns the locator table of the BOM portal, keyed by config name
func DefaultLocators() map[string]LocatorSpec {
	return map[string]LocatorSpec{
		"login_ready":  {By: ByXPath, Expr: `//*[@id="login-form"]/input[2]`},
		"username":     {By: ByName, Expr: "username"},
		"password":     {By: ByName, Expr: "password"},
		"login_button": {By: ByXPath, Expr: `//*[@id="login-form"]/input[2]`},
		"bom_tab":      {By: ByXPath, Expr: `//*[@id="accordionSidebar"]/li[5]/a/span`},
		"add_bom":      {By: ByXPath, Expr: `//*[@id="content"]/div/div/div[1]/a[1]/i`},
		"bom_name":     {By: ByXPath, Expr: `//*[@id="id_bom_name"]`},
		"part_select":  {By: ByClass, Expr: "select2-selection__placeholder"},
		"part_search":  {By: ByClass, Expr: "select2-search__field"},
		"part_results": {By: ByCSS, Expr: "li.select2-results__option:not(.select2-results__message):not(.loading-results)"},
		"quantity":     {By: ByXPath, Expr: `//*[@id="table_body"]/tr[{row}]/td[4]/input`},
		"remarks":      {By: ByXPath, Expr: `//*[@id="table_body"]/tr[{row}]/td[5]/input`},
		"add_row":      {By: ByXPath, Expr: `//*[@id="add_row"]/span`},
		"remove_row":   {By: ByXPath, Expr: `//*[@id="table_body"]/tr[{row}]/td[6]/a/span`},
		"upload":       {By: ByID, Expr: "id_bom_file"},
	}
}

// DefaultLocatorConfig returns the default table as a LocatorConfig
func DefaultLocatorConfig() LocatorConfig {
	d := DefaultLocators()
	return LocatorConfig{
		LoginReady:    d["login_ready"],
		Username:      d["username"],
		Password:      d["password"],
		LoginButton:   d["login_button"],
		BOMTab:        d["bom_tab"],
		AddBOM:        d["add_bom"],
		BOMName:       d["bom_name"],
		PartSelect:    d["part_select"],
		PartSearch:    d["part_search"],
		PartResults:   d["part_results"],
		QuantityField: d["quantity"],
		RemarksField:  d["remarks"],
		AddRow:        d["add_row"],
		RemoveRow:     d["remove_row"],
		Upload:        d["upload"],
	}
}

// entries lists the table with its config names
func (c *LocatorConfig) entries() map[string]LocatorSpec {
	return map[string]LocatorSpec{
		"login_ready":  c.LoginReady,
		"username":     c.Username,
		"password":     c.Password,
		"login_button": c.LoginButton,
		"bom_tab":      c.BOMTab,
		"add_bom":      c.AddBOM,
		"bom_name":     c.BOMName,
		"part_select":  c.PartSelect,
		"part_search":  c.PartSearch,
		"part_results": c.PartResults,
		"quantity":     c.QuantityField,
		"remarks":      c.RemarksField,
		"add_row":      c.AddRow,
		"remove_row":   c.RemoveRow,
		"upload":       c.Upload,
	}
}

// Validate checks every locator has a known strategy and an expression,
// and that row-scoped fields carry the row placeholder
func (c *LocatorConfig) Validate() error {
	for name, loc := range c.entries() {
		switch loc.By {
		case ByXPath, ByClass, ByName, ByID, ByCSS:
		default:
			return fmt.Errorf("locators.%s: unknown strategy %q", name, loc.By)
		}
		if strings.TrimSpace(loc.Expr) == "" {
			return fmt.Errorf("locators.%s: expression cannot be empty", name)
		}
	}

	for name, loc := range map[string]LocatorSpec{
		"quantity":   c.QuantityField,
		"remarks":    c.RemarksField,
		"remove_row": c.RemoveRow,
	} {
		if !loc.IsRowScoped() {
			return fmt.Errorf("locators.%s: expression must contain %s", name, RowPlaceholder)
		}
	}
	return nil
}
