// Package config loads and saves spendwell configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all spendwell configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Budget     BudgetConfig     `toml:"budget"`
	Vocabulary VocabularyConfig `toml:"vocabulary"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	StorePath   string `toml:"store_path,omitempty"`
	DefaultUser int64  `toml:"default_user,omitempty"`
}

// AnalysisConfig holds the knobs for anomaly detection and forecasting.
type AnalysisConfig struct {
	LookbackDays          int     `toml:"lookback_days"`
	MinAnomalyRecords     int     `toml:"min_anomaly_records"`
	MinForecastRecords    int     `toml:"min_forecast_records"`
	MinCategoryRecords    int     `toml:"min_category_records"`
	Contamination         float64 `toml:"contamination"`
	Trees                 int     `toml:"trees"`
	Seed                  int64   `toml:"seed"`
	HorizonDays           int     `toml:"horizon_days"`
	ChangepointPriorScale float64 `toml:"changepoint_prior_scale"`
}

// BudgetConfig holds budget projection settings.
// MonthlyLimit, when set, overrides the income-fraction policy.
type BudgetConfig struct {
	IncomeFraction float64  `toml:"income_fraction"`
	MonthlyLimit   *float64 `toml:"monthly_limit,omitempty"`
}

// VocabularyConfig fixes the closed category and payment-method sets used
// for one-hot encoding. Fit and score paths share the same vocabulary, so
// feature columns can never misalign between calls.
type VocabularyConfig struct {
	Categories     []string `toml:"categories"`
	PaymentMethods []string `toml:"payment_methods"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			LookbackDays:          90,
			MinAnomalyRecords:     10,
			MinForecastRecords:    30,
			MinCategoryRecords:    10,
			Contamination:         0.10,
			Trees:                 100,
			Seed:                  42,
			HorizonDays:           30,
			ChangepointPriorScale: 0.05,
		},
		Budget: BudgetConfig{
			IncomeFraction: 0.50,
		},
		Vocabulary: VocabularyConfig{
			Categories: []string{
				"food", "groceries", "rent", "utilities", "transport",
				"shopping", "entertainment", "health", "education", "travel",
				"other",
			},
			PaymentMethods: []string{
				"cash", "upi", "credit card", "debit card", "netbanking",
			},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendwell")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendwell")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// StorePath resolves the SQLite database path: SPENDWELL_DB env var first,
// then the configured path, then the default data location.
func StorePath(cfg Config) string {
	if p := os.Getenv("SPENDWELL_DB"); p != "" {
		return p
	}
	if cfg.General.StorePath != "" {
		return cfg.General.StorePath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "spendwell", "spendwell.db")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
