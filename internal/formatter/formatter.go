package formatter

import (
	"github.com/jacoelho/jsoneater/internal/results"
)

// Formatter defines the interface for reporting a run to the user.
// Implementations are responsible for determining the output device.
type Formatter interface {
	// Format reports the per-file results and totals of a finished run.
	Format(summary *results.Summary) error

	// Progress reports a snapshot of the file being flattened.
	Progress(p results.Progress) error

	// Error reports a failure that stops a file.
	Error(filename string, err error) error
}
