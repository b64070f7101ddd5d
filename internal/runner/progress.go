package runner

import (
	"time"

	"github.com/jacoelho/jsoneater/flatten"
	"github.com/jacoelho/jsoneater/internal/formatter"
	"github.com/jacoelho/jsoneater/internal/input"
	"github.com/jacoelho/jsoneater/internal/ratelimit"
	"github.com/jacoelho/jsoneater/internal/results"
)

// progress reports throttled progress lines while a file is flattened.
type progress struct {
	limiter   *ratelimit.Limiter
	formatter formatter.Formatter
	file      *input.File
	start     time.Time
	leaves    int
}

func (p *progress) VisitAny(*flatten.Path, flatten.Value) {
	p.leaves++
	if !p.limiter.Allow() {
		return
	}

	_ = p.formatter.Progress(results.Progress{
		Filename: p.file.Name(),
		Leaves:   p.leaves,
		Bytes:    p.file.BytesRead(),
		Elapsed:  time.Since(p.start),
	})
}
