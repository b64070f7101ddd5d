package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/jsoneater/flatten"
	"github.com/jacoelho/jsoneater/internal/config"
	"github.com/jacoelho/jsoneater/internal/exit"
	"github.com/jacoelho/jsoneater/internal/filter"
	"github.com/jacoelho/jsoneater/internal/formatter"
	"github.com/jacoelho/jsoneater/internal/formatter/stdout"
	"github.com/jacoelho/jsoneater/internal/input"
	"github.com/jacoelho/jsoneater/internal/jsonpath"
	"github.com/jacoelho/jsoneater/internal/ratelimit"
	"github.com/jacoelho/jsoneater/internal/results"
	"github.com/jacoelho/jsoneater/internal/sink"
)

var (
	// ErrOutput marks failures writing the flattened output.
	ErrOutput = errors.New("output failure")
	// ErrInterrupted is reported when the context ends between files.
	ErrInterrupted = errors.New("interrupted")
)

// Runner flattens the configured inputs into a single sink.
type Runner struct {
	config    *config.Config
	pattern   *jsonpath.Pattern
	predicate *filter.Predicate
	limiter   *ratelimit.Limiter
	formatter formatter.Formatter
	stdout    io.Writer
}

// New creates a new Runner with the provided configuration.
// If creation fails, returns nil runner and exit result.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	r := &Runner{
		config:    cfg,
		formatter: stdout.New(),
		stdout:    os.Stdout,
	}

	if cfg.Filter != "" {
		pattern, err := jsonpath.Compile(cfg.Filter)
		if err != nil {
			return nil, exit.Errorf("Error creating runner: %v\n", err)
		}
		r.pattern = pattern
	}

	if cfg.Where != "" {
		predicate, err := filter.CompilePredicate(cfg.Where)
		if err != nil {
			return nil, exit.Errorf("Error creating runner: %v\n", err)
		}
		r.predicate = predicate
	}

	if cfg.Progress > 0 {
		r.limiter = ratelimit.New(cfg.Progress)
	}

	return r, nil
}

// Run flattens every input in order and returns the process exit code.
// A file that cannot be read or parsed is reported and skipped; an output
// failure stops the run.
func (r *Runner) Run(ctx context.Context) int {
	out, closeOutput, err := r.openOutput()
	if err != nil {
		_ = r.formatter.Error(r.config.Output, err)
		return exit.CodeOutput
	}

	s, err := sink.New(sink.Options{
		Format:    r.config.Format,
		Output:    out,
		Database:  r.config.Output,
		Template:  r.config.Template,
		PathStyle: r.config.PathStyle,
		BatchSize: r.config.BatchSize,
	})
	if err != nil {
		_ = closeOutput()
		_ = r.formatter.Error(r.config.Output, err)
		if errors.Is(err, sink.ErrTemplate) {
			return exit.CodeUsage
		}
		return exit.CodeOutput
	}

	summary, code := r.ExecuteFiles(ctx, s)

	if err := errors.Join(s.Close(), closeOutput()); err != nil && code != exit.CodeOutput {
		_ = r.formatter.Error(r.config.Output, err)
		code = exit.CodeOutput
	}

	if r.config.Stats {
		summary.RecordRSS()
		if err := r.formatter.Format(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting results: %v\n", err)
		}
	}

	return code
}

// ExecuteFiles flattens the inputs into s and returns the per-file results
// with the exit code they add up to.
func (r *Runner) ExecuteFiles(ctx context.Context, s sink.Sink) (*results.Summary, int) {
	summary := results.NewSummary(len(r.config.Inputs))
	chain := filter.New(s, r.pattern, r.predicate)

	overallStart := time.Now()
	code := exit.CodeSuccess

	for i, filename := range r.config.Inputs {
		select {
		case <-ctx.Done():
			err := fmt.Errorf("%w after %d of %d files: %w", ErrInterrupted, i, len(r.config.Inputs), ctx.Err())
			_ = r.formatter.Error(filename, err)
			summary.SetTotalDuration(time.Since(overallStart))
			return summary, exit.Worst(code, exit.CodeUsage)
		default:
		}

		start := time.Now()
		leaves, bytesRead, err := r.executeFile(s, chain, filename)

		summary.Add(results.NewFileResultBuilder(filename).
			WithLeaves(leaves).
			WithBytes(bytesRead).
			WithDuration(time.Since(start)).
			WithError(err))

		if err == nil {
			continue
		}

		_ = r.formatter.Error(filename, err)
		code = exit.Worst(code, codeFor(err))

		// the sink error is sticky, later leaves would be lost
		if errors.Is(err, ErrOutput) {
			break
		}
	}

	if chain.Failed() > 0 {
		_ = r.formatter.Error("-where", fmt.Errorf("dropped %d leaves it could not evaluate, first: %w", chain.Failed(), chain.Err()))
	}

	summary.SetTotalDuration(time.Since(overallStart))
	return summary, code
}

// executeFile flattens one input and returns the leaves it held and the raw
// bytes read.
func (r *Runner) executeFile(s sink.Sink, chain *filter.Filter, filename string) (int, int64, error) {
	file, err := input.Open(filename, r.config.Decompress)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	s.StartDocument(filename)

	var counter flatten.Counter
	visitors := []flatten.Visitor{&counter, chain}
	if r.limiter != nil {
		visitors = append(visitors, &progress{
			limiter:   r.limiter,
			formatter: r.formatter,
			file:      file,
			start:     time.Now(),
		})
	}
	v := flatten.Multi(visitors...)

	if r.config.Buffer {
		var data []byte
		data, err = file.ReadAll()
		if err != nil {
			return 0, file.BytesRead(), fmt.Errorf("failed to read %s: %w", filename, err)
		}
		err = flatten.Bytes(data, v, flatten.Borrow())
	} else {
		err = flatten.Reader(file, v)
	}

	// a broken output explains a short document better than the parse error
	if serr := s.Err(); serr != nil {
		return counter.Total, file.BytesRead(), fmt.Errorf("%w: %w", ErrOutput, serr)
	}
	if err != nil {
		return counter.Total, file.BytesRead(), fmt.Errorf("failed to flatten %s: %w", filename, err)
	}

	return counter.Total, file.BytesRead(), nil
}

// openOutput returns the destination of text formats. The sqlite sink opens
// its own database.
func (r *Runner) openOutput() (io.Writer, func() error, error) {
	noop := func() error { return nil }

	if r.config.Format == sink.SQLite || r.config.Output == "" || r.config.Output == "-" {
		return r.stdout, noop, nil
	}

	f, err := os.Create(r.config.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return f, f.Close, nil
}

// codeFor maps a file failure to an exit code.
func codeFor(err error) int {
	switch {
	case errors.Is(err, ErrOutput):
		return exit.CodeOutput
	default:
		return exit.CodeInput
	}
}
