// Package errsink provides destinations for user-facing error messages.
package errsink

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/msalah0e/ontomap/internal/ui"
)

// Log reports messages as error records on a logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Report(message string) {
	l.Logger.Error(message)
}

// Console prints messages in the CLI's error style.
type Console struct {
	W io.Writer
}

func (c Console) Report(message string) {
	fmt.Fprintf(c.W, "  %s %s\n", ui.StatusIcon(false), ui.Bad.Sprint(message))
}

// Multi fans a message out to several sinks.
type Multi []interface{ Report(string) }

func (m Multi) Report(message string) {
	for _, s := range m {
		s.Report(message)
	}
}

// Recorder keeps every message; it is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Report(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.messages)
}
