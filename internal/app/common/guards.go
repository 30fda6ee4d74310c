package common

import "fmt"

// RequireConfirmationOrDryRun gates destructive actions: either the run
// is a dry run, confirmation is disabled in config, or --yes was given.
func RequireConfirmationOrDryRun(app *AppContext, action string) error {
	if app.Options.DryRun || app.Config.DryRun {
		return nil
	}
	if !app.Config.ConfirmRequired || app.Options.Yes {
		return nil
	}
	return fmt.Errorf("confirmation required for %s: use --yes or --dry-run", action)
}

// EffectiveDryRun merges the flag with the configured default.
func EffectiveDryRun(app *AppContext) bool {
	return app.Options.DryRun || app.Config.DryRun
}
