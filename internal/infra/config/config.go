// Package config resolves the on-disk configuration and environment
// into one struct. The core services read nothing but the resolved
// struct; flags in the cmd layer may override individual fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"binsweep/internal/domain/model"
)

type Resolved struct {
	MaxDepth         int             `mapstructure:"max_depth"`
	MinAgeDays       int             `mapstructure:"min_age_days"`
	MaxAgeDays       int             `mapstructure:"max_age_days"`
	MinSizeBytes     uint64          `mapstructure:"min_size_bytes"`
	MaxSizeBytes     uint64          `mapstructure:"max_size_bytes"`
	NamePattern      string          `mapstructure:"name_pattern"`
	DryRun           bool            `mapstructure:"dry_run"`
	ConfirmRequired  bool            `mapstructure:"confirm_required"`
	MinRiskThreshold model.RiskLevel `mapstructure:"min_risk_threshold"`
	Workers          int             `mapstructure:"workers"`
	HistoryPath      string          `mapstructure:"history_path"`
}

// MaxWorkers caps in-flight directory listings and deletions.
const MaxWorkers = 8

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > MaxWorkers {
		n = MaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

func configDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "binsweep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "binsweep")
}

func defaultHistoryPath() string {
	if x := os.Getenv("XDG_STATE_HOME"); x != "" {
		return filepath.Join(x, "binsweep", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "binsweep", "history.db")
}

// Load reads config.yaml from the binsweep config directory plus
// BINSWEEP_* environment overrides. A missing config file yields the
// defaults; a malformed one is an error.
func Load() (Resolved, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix("BINSWEEP")
	v.AutomaticEnv()

	v.SetDefault("max_depth", 10)
	v.SetDefault("min_age_days", 0)
	v.SetDefault("max_age_days", 0)
	v.SetDefault("min_size_bytes", 0)
	v.SetDefault("max_size_bytes", 0)
	v.SetDefault("name_pattern", "")
	v.SetDefault("dry_run", false)
	v.SetDefault("confirm_required", true)
	v.SetDefault("min_risk_threshold", string(model.RiskMedium))
	v.SetDefault("workers", defaultWorkers())
	v.SetDefault("history_path", defaultHistoryPath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Resolved{}, fmt.Errorf("read config: %w", err)
		}
	}

	var out Resolved
	if err := v.Unmarshal(&out); err != nil {
		return Resolved{}, fmt.Errorf("decode config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Resolved{}, err
	}
	return out, nil
}

func (r *Resolved) Validate() error {
	if r.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1, got %d", r.MaxDepth)
	}
	if r.Workers < 1 || r.Workers > MaxWorkers {
		return fmt.Errorf("workers must be in [1,%d], got %d", MaxWorkers, r.Workers)
	}
	if r.MinAgeDays < 0 || r.MaxAgeDays < 0 {
		return fmt.Errorf("age bounds must be >= 0")
	}
	if r.MaxAgeDays > 0 && r.MinAgeDays > r.MaxAgeDays {
		return fmt.Errorf("min_age_days %d exceeds max_age_days %d", r.MinAgeDays, r.MaxAgeDays)
	}
	if r.MaxSizeBytes > 0 && r.MinSizeBytes > r.MaxSizeBytes {
		return fmt.Errorf("min_size_bytes exceeds max_size_bytes")
	}
	switch r.MinRiskThreshold {
	case model.RiskSafe, model.RiskLow, model.RiskMedium, model.RiskHigh, model.RiskCritical:
	default:
		return fmt.Errorf("min_risk_threshold %q is not a risk level", r.MinRiskThreshold)
	}
	return nil
}
