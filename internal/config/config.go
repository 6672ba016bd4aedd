package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group names recognized at level 1 of the budget rollup. Savings carries no
// member categories; it is computed residually.
const (
	GroupNeeds   = "needs"
	GroupWants   = "wants"
	GroupSavings = "savings"
)

// Ratio keys recognized in the ratios map. Housing is a sub-allocation folded
// into the needs group budget.
const (
	RatioHousing    = "housing"
	RatioOtherNeeds = "other_needs"
	RatioWants      = "wants"
	RatioSavings    = "savings"
)

var (
	memberGroups = []string{GroupNeeds, GroupWants}
	ratioKeys    = []string{RatioHousing, RatioOtherNeeds, RatioWants, RatioSavings}
)

// Config represents the top-level clearspend.yaml configuration.
type Config struct {
	Categories        []string            `yaml:"categories"`
	Groups            map[string][]string `yaml:"groups"`        // group name -> member categories
	Ratios            map[string]float64  `yaml:"ratios"`        // ratio key -> fraction of monthly income
	FixedAmounts      map[string]float64  `yaml:"fixed_amounts"` // category -> fixed monthly budget
	Income            IncomeConfig        `yaml:"income"`
	Housing           HousingConfig       `yaml:"housing"`
	RecurringKeywords []string            `yaml:"recurring_keywords,omitempty"`
	Store             StoreConfig         `yaml:"store"`
	LogLevel          string              `yaml:"log_level,omitempty"`
}

// IncomeConfig controls monthly income detection. Override, when positive,
// wins over keyword detection.
type IncomeConfig struct {
	Keyword  string  `yaml:"keyword,omitempty"`
	Override float64 `yaml:"override,omitempty"`
}

// HousingConfig controls the housing category's actual-amount rule: match by
// description keyword when configured, fall back to the fixed amount.
type HousingConfig struct {
	Category    string  `yaml:"category,omitempty"`
	Keyword     string  `yaml:"keyword,omitempty"`
	FixedAmount float64 `yaml:"fixed_amount,omitempty"`
}

// StoreConfig locates the reclassification store and its audit log.
type StoreConfig struct {
	DBPath       string `yaml:"db_path,omitempty"`
	AuditLogPath string `yaml:"audit_log_path,omitempty"`
}

// Load reads a clearspend.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the closed key sets: unknown group names, unknown ratio
// keys, and categories referenced but not declared all fail loudly instead of
// silently falling into an unstructured bucket.
func (c *Config) Validate() error {
	var errs []string

	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if known[cat] {
			errs = append(errs, fmt.Sprintf("duplicate category %q", cat))
		}
		known[cat] = true
	}

	for group, members := range c.Groups {
		if !slices.Contains(memberGroups, group) {
			errs = append(errs, fmt.Sprintf("unknown group %q: recognized groups are %v", group, memberGroups))
		}
		for _, cat := range members {
			if !known[cat] {
				errs = append(errs, fmt.Sprintf("group %q references undeclared category %q", group, cat))
			}
		}
	}

	for key, v := range c.Ratios {
		if !slices.Contains(ratioKeys, key) {
			errs = append(errs, fmt.Sprintf("unknown ratio key %q: recognized keys are %v", key, ratioKeys))
		}
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("ratio %q = %v: must be within [0, 1]", key, v))
		}
	}

	for cat, v := range c.FixedAmounts {
		if !known[cat] {
			errs = append(errs, fmt.Sprintf("fixed amount for undeclared category %q", cat))
		}
		if v < 0 {
			errs = append(errs, fmt.Sprintf("fixed amount for %q is negative", cat))
		}
	}

	if c.Housing.Category != "" && !known[c.Housing.Category] {
		errs = append(errs, fmt.Sprintf("housing category %q is not declared", c.Housing.Category))
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// GroupFor returns the group a category belongs to, or false when the
// category is unassigned.
func (c *Config) GroupFor(category string) (string, bool) {
	for group, members := range c.Groups {
		if slices.Contains(members, category) {
			return group, true
		}
	}
	return "", false
}

// Ratio returns the configured ratio for a key, zero when absent.
func (c *Config) Ratio(key string) float64 {
	return c.Ratios[key]
}

// Default returns a Config with the standard group split.
func Default() *Config {
	return &Config{
		Categories: []string{
			"Housing", "Groceries", "Utilities", "Insurance", "Pharmacy",
			"Transportation", "Dining", "Shopping", "Entertainment", "Travel",
		},
		Groups: map[string][]string{
			GroupNeeds: {"Housing", "Groceries", "Utilities", "Insurance", "Pharmacy", "Transportation"},
			GroupWants: {"Dining", "Shopping", "Entertainment", "Travel"},
		},
		Ratios: map[string]float64{
			RatioHousing:    0.41,
			RatioOtherNeeds: 0.15,
			RatioWants:      0.20,
			RatioSavings:    0.24,
		},
		FixedAmounts: map[string]float64{},
		Housing: HousingConfig{
			Category: "Housing",
		},
		Store: StoreConfig{
			DBPath:       "data/clearspend.db",
			AuditLogPath: "logs/reclass-log.csv",
		},
		LogLevel: "info",
	}
}
