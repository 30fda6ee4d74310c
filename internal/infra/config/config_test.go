package config

import (
	"os"
	"path/filepath"
	"testing"

	"binsweep/internal/domain/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDepth != 10 {
		t.Fatalf("max depth %d, want 10", cfg.MaxDepth)
	}
	if !cfg.ConfirmRequired {
		t.Fatal("confirmation should default to required")
	}
	if cfg.MinRiskThreshold != model.RiskMedium {
		t.Fatalf("threshold %q, want MEDIUM", cfg.MinRiskThreshold)
	}
	if cfg.Workers < 1 || cfg.Workers > MaxWorkers {
		t.Fatalf("workers %d out of range", cfg.Workers)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgDir := filepath.Join(dir, "binsweep")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "max_depth: 4\nmin_age_days: 30\nname_pattern: \"*.tmp\"\nmin_risk_threshold: LOW\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDepth != 4 || cfg.MinAgeDays != 30 || cfg.NamePattern != "*.tmp" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MinRiskThreshold != model.RiskLow {
		t.Fatalf("threshold %q", cfg.MinRiskThreshold)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []Resolved{
		{MaxDepth: 0, Workers: 2, MinRiskThreshold: model.RiskSafe},
		{MaxDepth: 5, Workers: 99, MinRiskThreshold: model.RiskSafe},
		{MaxDepth: 5, Workers: 2, MinAgeDays: 10, MaxAgeDays: 5, MinRiskThreshold: model.RiskSafe},
		{MaxDepth: 5, Workers: 2, MinRiskThreshold: "super"},
	}
	for i, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, c)
		}
	}
}
