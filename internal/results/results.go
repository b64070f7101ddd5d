package results

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

type FileResult struct {
	Filename string
	Leaves   int
	Bytes    int64
	Duration time.Duration
	Error    error
}

type FileResultBuilder struct {
	filename string
	leaves   int
	bytes    int64
	duration time.Duration
	err      error
}

func NewFileResultBuilder(filename string) *FileResultBuilder {
	return &FileResultBuilder{
		filename: filename,
	}
}

func (b *FileResultBuilder) WithLeaves(count int) *FileResultBuilder {
	b.leaves = count
	return b
}

// WithBytes records the raw input size, before decompression.
func (b *FileResultBuilder) WithBytes(n int64) *FileResultBuilder {
	b.bytes = n
	return b
}

func (b *FileResultBuilder) WithDuration(duration time.Duration) *FileResultBuilder {
	b.duration = duration
	return b
}

func (b *FileResultBuilder) WithError(err error) *FileResultBuilder {
	b.err = err
	return b
}

func (b *FileResultBuilder) Build() FileResult {
	return FileResult{
		Filename: b.filename,
		Leaves:   b.leaves,
		Bytes:    b.bytes,
		Duration: b.duration,
		Error:    b.err,
	}
}

type Summary struct {
	FileResults    []FileResult
	ExecutedFiles  int
	Leaves         int
	Bytes          int64
	SucceededFiles int
	FailedFiles    int
	TotalDuration  time.Duration
	RSS            uint64 // resident set size at the end of the run, 0 if unknown
}

func NewSummary(expectedFiles int) *Summary {
	return &Summary{
		FileResults: make([]FileResult, 0, expectedFiles),
	}
}

func (s *Summary) Add(builder *FileResultBuilder) {
	result := builder.Build()

	s.FileResults = append(s.FileResults, result)
	s.ExecutedFiles++
	s.Leaves += result.Leaves
	s.Bytes += result.Bytes

	if result.Error != nil {
		s.FailedFiles++
	} else {
		s.SucceededFiles++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

// RecordRSS samples the resident set size of the current process. Failures
// leave RSS at zero: the figure is informational.
func (s *Summary) RecordRSS() {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return
	}
	s.RSS = mem.RSS
}

func (s *Summary) LeavesPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.Leaves) / s.TotalDuration.Seconds()
}

func (s *Summary) BytesPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.Bytes) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.SucceededFiles) / float64(s.ExecutedFiles)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.FailedFiles) / float64(s.ExecutedFiles)) * 100
}

// Progress is a snapshot of the file being flattened.
type Progress struct {
	Filename string
	Leaves   int
	Bytes    int64
	Elapsed  time.Duration
}
