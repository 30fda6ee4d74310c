package common

import (
	"binsweep/internal/infra/config"
	"binsweep/internal/infra/history"
	"binsweep/internal/infra/logging"
	"binsweep/internal/infra/trash"
)

type contextKey string

const ContextKeyApp contextKey = "appctx"

type GlobalOptions struct {
	DryRun    bool
	Debug     bool
	Yes       bool
	JSON      bool
	NoHistory bool
}

// AppContext carries the resolved configuration and collaborators into
// the services. There is no hidden process-wide state; the caller owns
// this struct.
type AppContext struct {
	Options   GlobalOptions
	Config    config.Resolved
	Logger    logging.Logger
	Discovery trash.Discovery
	History   *history.Store
}
