package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"frizo/quant_calc/pkg/utils"
)

// Config holds the application configuration.
type Config struct {
	// Logging configuration
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json

	// Application configuration
	Environment string `yaml:"environment"`
	OutputDir   string `yaml:"output_dir"` // export documents are written here when set

	// Calculator configuration
	AccountBalance float64                       `yaml:"account_balance"` // reference balance for CFD margin utilization
	NoiseSeed      uint64                        `yaml:"noise_seed"`      // default DCA seed
	Instruments    map[string]InstrumentOverride `yaml:"instruments"`     // keyed by instrument class
	Rebalance      map[string]RebalanceOverride  `yaml:"rebalance"`       // keyed by rebalance frequency
}

// InstrumentOverride replaces the non-nil fields of a built-in CFD instrument spec.
type InstrumentOverride struct {
	Name            string   `yaml:"name"`
	PipSize         *float64 `yaml:"pip_size"`
	PipValue        *float64 `yaml:"pip_value"`
	DefaultLeverage *float64 `yaml:"default_leverage"`
	DefaultSpread   *float64 `yaml:"default_spread"`
	DefaultSwap     *float64 `yaml:"default_swap"`
	MaintenanceRate *float64 `yaml:"maintenance_rate"`
}

// RebalanceOverride replaces the non-nil fields of a rebalance schedule.
type RebalanceOverride struct {
	PerYear *float64 `yaml:"per_year"`
	CostPct *float64 `yaml:"cost_pct"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Environment:    "development",
		AccountBalance: 10000,
		NoiseSeed:      42,
	}
}

// Load loads the configuration from environment variables.
func Load() *Config {
	config := Default()
	applyEnv(config)
	return config
}

// LoadFile reads a YAML file over the defaults, then applies environment
// overrides. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	if path == "" || !utils.FileExists(path) {
		config := Load()
		if err := config.Validate(); err != nil {
			return nil, err
		}
		return config, nil
	}

	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnv(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q, want text or json", c.LogFormat)
	}
	if !(c.AccountBalance >= 0) || math.IsInf(c.AccountBalance, 0) {
		return fmt.Errorf("invalid account_balance %v, must be finite and not negative", c.AccountBalance)
	}

	for _, key := range sortedKeys(c.Instruments) {
		o := c.Instruments[key]
		fields := []struct {
			name string
			v    *float64
		}{
			{"pip_size", o.PipSize},
			{"pip_value", o.PipValue},
			{"default_leverage", o.DefaultLeverage},
			{"default_spread", o.DefaultSpread},
			{"default_swap", o.DefaultSwap},
			{"maintenance_rate", o.MaintenanceRate},
		}
		for _, f := range fields {
			if f.v != nil && !finite(*f.v) {
				return fmt.Errorf("invalid instruments.%s.%s %v, must be finite", key, f.name, *f.v)
			}
		}
	}

	for _, key := range sortedKeys(c.Rebalance) {
		o := c.Rebalance[key]
		if o.PerYear != nil && !finite(*o.PerYear) {
			return fmt.Errorf("invalid rebalance.%s.per_year %v, must be finite", key, *o.PerYear)
		}
		if o.CostPct != nil && !finite(*o.CostPct) {
			return fmt.Errorf("invalid rebalance.%s.cost_pct %v, must be finite", key, *o.CostPct)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// sortedKeys keeps validation errors stable across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applyEnv(c *Config) {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.OutputDir = getEnv("QC_OUTPUT_DIR", c.OutputDir)
	c.AccountBalance = getEnvAsFloat("QC_ACCOUNT_BALANCE", c.AccountBalance)
	c.NoiseSeed = getEnvAsUint64("QC_NOISE_SEED", c.NoiseSeed)
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvAsFloat gets an environment variable as float64 with a default value.
func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}

// getEnvAsUint64 gets an environment variable as uint64 with a default value.
func getEnvAsUint64(key string, defaultVal uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintVal, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintVal
		}
	}
	return defaultVal
}
