package stdout

import (
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jsoneater/internal/formatter"
	"github.com/jacoelho/jsoneater/internal/results"
)

// Formatter implements text output formatting.
type Formatter struct {
	writer io.Writer
}

// New creates a new formatter that outputs to stderr, keeping stdout for
// flattened data.
func New() formatter.Formatter {
	return &Formatter{
		writer: os.Stderr,
	}
}

// NewWithWriter creates a new formatter with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(writer io.Writer) formatter.Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Format prints one line per file followed by the run totals.
func (f *Formatter) Format(s *results.Summary) error {
	if s == nil {
		return nil
	}

	for _, fileResult := range s.FileResults {
		status := "Success"
		if fileResult.Error != nil {
			status = fmt.Sprintf("Failed: %v", fileResult.Error)
		}
		_, err := fmt.Fprintf(f.writer, "%s: %s (%d leaves, %s in %d ms)\n",
			fileResult.Filename, status, fileResult.Leaves, humanBytes(fileResult.Bytes), fileResult.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(f.writer, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(f.writer, "Executed files:    %d\n", s.ExecutedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Leaves:            %d (%.2f/s)\n", s.Leaves, s.LeavesPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Input:             %s (%s/s)\n", humanBytes(s.Bytes), humanBytes(int64(s.BytesPerSecond()))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Succeeded files:   %d (%.1f%%)\n", s.SucceededFiles, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Failed files:      %d (%.1f%%)\n", s.FailedFiles, s.FailurePercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Duration:          %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}
	if s.RSS > 0 {
		if _, err := fmt.Fprintf(f.writer, "Resident memory:   %s\n", humanBytes(int64(s.RSS))); err != nil {
			return err
		}
	}

	return nil
}

func (f *Formatter) Progress(p results.Progress) error {
	_, err := fmt.Fprintf(f.writer, "%s: %d leaves, %s read, %d ms\n",
		p.Filename, p.Leaves, humanBytes(p.Bytes), p.Elapsed.Milliseconds())
	return err
}

func (f *Formatter) Error(filename string, err error) error {
	_, werr := fmt.Fprintf(f.writer, "%s: %v\n", filename, err)
	return werr
}

// humanBytes formats n with binary units, e.g. 1536 as "1.5 KiB".
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
