package common

import (
	"testing"

	"binsweep/internal/infra/config"
)

func TestRequireConfirmationOrDryRun(t *testing.T) {
	base := config.Resolved{ConfirmRequired: true}

	app := &AppContext{Options: GlobalOptions{DryRun: true}, Config: base}
	if err := RequireConfirmationOrDryRun(app, "cleanup"); err != nil {
		t.Fatalf("unexpected error in dry-run: %v", err)
	}

	app = &AppContext{Options: GlobalOptions{Yes: true}, Config: base}
	if err := RequireConfirmationOrDryRun(app, "cleanup"); err != nil {
		t.Fatalf("unexpected error with --yes: %v", err)
	}

	app = &AppContext{Config: config.Resolved{ConfirmRequired: false}}
	if err := RequireConfirmationOrDryRun(app, "cleanup"); err != nil {
		t.Fatalf("unexpected error with confirmation disabled: %v", err)
	}

	app = &AppContext{Config: base}
	if err := RequireConfirmationOrDryRun(app, "cleanup"); err == nil {
		t.Fatal("expected confirmation error")
	}
}

func TestEffectiveDryRun(t *testing.T) {
	if !EffectiveDryRun(&AppContext{Options: GlobalOptions{DryRun: true}}) {
		t.Fatal("flag dry-run ignored")
	}
	if !EffectiveDryRun(&AppContext{Config: config.Resolved{DryRun: true}}) {
		t.Fatal("config dry-run ignored")
	}
	if EffectiveDryRun(&AppContext{}) {
		t.Fatal("dry-run should default off")
	}
}
