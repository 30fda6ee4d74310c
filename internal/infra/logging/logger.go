package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Event is one structured record emitted by the core: a deletion, a
// skip, a warning. Logging is fire-and-forget; the core never blocks on
// it and never depends on it succeeding.
type Event struct {
	Kind   string
	Path   string
	Detail string
}

type Logger interface {
	Record(event Event)
}

type noopLogger struct{}

func (noopLogger) Record(Event) {}

func NewNoopLogger() Logger { return noopLogger{} }

type eventLogger struct {
	log zerolog.Logger
}

// NewEventLogger builds the production logger: console output on
// stderr, plus a JSON line log under the state directory when one can
// be opened. Failures to open the file degrade to console only.
func NewEventLogger(debug bool) Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if f := openEventFile(); f != nil {
		// Console stays human-formatted; the file gets raw JSON lines.
		out = zerolog.MultiLevelWriter(out, f)
	}

	return &eventLogger{
		log: zerolog.New(out).With().Timestamp().Logger().Level(level),
	}
}

func (l *eventLogger) Record(ev Event) {
	entry := l.log.Info()
	if ev.Kind == "delete_failed" || ev.Kind == "item_failed" {
		entry = l.log.Warn()
	}
	entry.Str("kind", ev.Kind).Str("path", ev.Path).Str("detail", ev.Detail).Msg("")
}

func openEventFile() *os.File {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateHome, "binsweep")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "events.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil
	}
	return f
}

// Capture is a test logger collecting events in memory. Safe for
// concurrent Record calls.
type Capture struct {
	mu     sync.Mutex
	Events []Event
}

func (c *Capture) Record(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, ev)
}

// Snapshot returns a copy of the recorded events.
func (c *Capture) Snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.Events))
	copy(out, c.Events)
	return out
}
