package common

import (
	"errors"

	"github.com/spf13/cobra"
)

// FromCommand pulls the AppContext installed by the root command's
// PersistentPreRunE out of the cobra context.
func FromCommand(cmd *cobra.Command) (*AppContext, error) {
	app, ok := cmd.Context().Value(ContextKeyApp).(*AppContext)
	if !ok || app == nil {
		return nil, errors.New("app context missing: command run outside Execute")
	}
	return app, nil
}
