// Package config loads run configuration from file, environment and flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/condorscan/condorscan/positions"
)

// Config is one screening run's settings. Market parameters have no engine
// defaults; spot and days-to-expiry must come from the caller, sigma may be
// estimated from history when omitted.
type Config struct {
	ChainPath   string `mapstructure:"chain"`
	HistoryPath string `mapstructure:"history"`
	Output      string `mapstructure:"output"`

	Spot         float64 `mapstructure:"spot"`
	DaysToExpiry int     `mapstructure:"dte"`
	RiskFreeRate float64 `mapstructure:"rate"`
	Sigma        float64 `mapstructure:"sigma"`

	Policy    string `mapstructure:"policy"`
	Start     int    `mapstructure:"start"`
	MaxRows   int    `mapstructure:"max-rows"`
	MaxOffset int    `mapstructure:"max-offset"`

	MinProbability float64 `mapstructure:"min-probability"`
	TopN           int     `mapstructure:"top"`
	Workers        int     `mapstructure:"workers"`
	Progress       bool    `mapstructure:"progress"`
	MonitorCPU     bool    `mapstructure:"monitor-cpu"`
	LogLevel       string  `mapstructure:"log-level"`
}

// SetDefaults registers defaults on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("policy", "nested-offset")
	v.SetDefault("start", 0)
	v.SetDefault("max-rows", 30)
	v.SetDefault("max-offset", 5)
	v.SetDefault("min-probability", 0.0)
	v.SetDefault("top", 10)
	v.SetDefault("progress", true)
	v.SetDefault("log-level", "info")
}

// Load reads an optional config file plus CONDORSCAN_* environment overrides
// into a Config.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("condorscan")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// EnumerationPolicy resolves the configured policy name.
func (c *Config) EnumerationPolicy() (positions.Policy, error) {
	switch c.Policy {
	case "nested-offset":
		return positions.NestedOffsetPolicy{
			Start:     c.Start,
			MaxRows:   c.MaxRows,
			MaxOffset: c.MaxOffset,
		}, nil
	case "independent":
		return positions.IndependentPolicy{MaxRows: c.MaxRows}, nil
	default:
		return nil, fmt.Errorf("unknown enumeration policy %q", c.Policy)
	}
}

// Scenario builds the market scenario from the configured parameters.
func (c *Config) Scenario() positions.Scenario {
	return positions.Scenario{
		Spot:         c.Spot,
		DaysToExpiry: c.DaysToExpiry,
		RiskFreeRate: c.RiskFreeRate,
		Sigma:        c.Sigma,
	}
}
