package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsoneater/internal/exit"
	"github.com/jacoelho/jsoneater/internal/filter"
	"github.com/jacoelho/jsoneater/internal/input"
	"github.com/jacoelho/jsoneater/internal/jsonpath"
	"github.com/jacoelho/jsoneater/internal/pathing"
	"github.com/jacoelho/jsoneater/internal/sink"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrNoInputs         = errors.New("no input files")
	ErrNoTemplate       = errors.New("template format needs -template")
	ErrNoDatabase       = errors.New("sqlite format needs -o with a database file")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrInvalidProgress  = errors.New("progress rate cannot be negative")
)

// Config represents the complete configuration for the jsoneater tool.
type Config struct {
	// Inputs are flattened in order; "-" is standard input.
	Inputs []string
	Buffer bool // read each input fully and flatten it without copying strings

	Decompress input.Compression

	// Output
	Output    string // file, "-" for stdout, or the sqlite database
	Format    sink.Format
	Template  string
	PathStyle sink.PathStyle
	BatchSize int

	// Selection
	Filter string // JSONPath pattern
	Where  string // expression predicate

	// Reporting
	Progress float64 // progress lines per second, 0 disables them
	Stats    bool

	ConfigFile string
}

// fileConfig mirrors the flags in a YAML defaults file. Absent keys keep
// the flag defaults. Relative file names are resolved against the
// directory of the file.
type fileConfig struct {
	Inputs     []string `yaml:"inputs"`
	Output     *string  `yaml:"output"`
	Format     *string  `yaml:"format"`
	Template   *string  `yaml:"template"`
	PathStyle  *string  `yaml:"path_style"`
	BatchSize  *int     `yaml:"batch"`
	Filter     *string  `yaml:"filter"`
	Where      *string  `yaml:"where"`
	Buffer     *bool    `yaml:"buffer"`
	Decompress *string  `yaml:"decompress"`
	Progress   *float64 `yaml:"progress"`
	Stats      *bool    `yaml:"stats"`
}

// Validate validates the configuration and returns an error if invalid.
// Input files are not opened here: one that cannot be read is reported and
// skipped when the run reaches it.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}

	if _, err := sink.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := sink.ParsePathStyle(string(c.PathStyle)); err != nil {
		return err
	}
	if _, err := input.ParseCompression(string(c.Decompress)); err != nil {
		return err
	}

	switch c.Format {
	case sink.Template:
		if c.Template == "" {
			return ErrNoTemplate
		}
	case sink.SQLite:
		if c.Output == "" || c.Output == "-" {
			return ErrNoDatabase
		}
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.Progress < 0 {
		return ErrInvalidProgress
	}

	if c.Filter != "" {
		if err := jsonpath.Validate(c.Filter); err != nil {
			return fmt.Errorf("invalid -filter: %w", err)
		}
	}
	if c.Where != "" {
		if _, err := filter.CompilePredicate(c.Where); err != nil {
			return fmt.Errorf("invalid -where: %w", err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		output     = fs.String("o", "-", "Output file, or the database file for -format sqlite")
		format     = fs.String("format", string(sink.CSV), "Output format: csv, jsonl, yaml, template or sqlite")
		tmpl       = fs.String("template", "", "Template executed for every leaf with -format template")
		pathStyle  = fs.String("path-style", string(sink.Slash), "Path style: slash or jsonpath")
		batchSize  = fs.Int("batch", sink.DefaultBatchSize, "Rows per insert with -format sqlite")
		pattern    = fs.String("filter", "", "Only keep leaves selected by this JSONPath expression")
		where      = fs.String("where", "", "Only keep leaves for which this expression is true")
		buffer     = fs.Bool("buffer", false, "Read each input into memory and flatten it without copying strings")
		decompress = fs.String("decompress", string(input.Auto), "Input compression: auto, none, gzip, zstd or lz4")
		progress   = fs.Float64("progress", 0, "Progress lines per second on stderr (0 disables)")
		stats      = fs.Bool("stats", false, "Print a summary on stderr")
		configFile = fs.String("config", "", "YAML file with defaults for the flags above")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{input.Stdin}
	}

	config := &Config{
		Inputs:     inputs,
		Buffer:     *buffer,
		Decompress: input.Compression(*decompress),
		Output:     *output,
		Format:     sink.Format(*format),
		Template:   *tmpl,
		PathStyle:  sink.PathStyle(*pathStyle),
		BatchSize:  *batchSize,
		Filter:     *pattern,
		Where:      *where,
		Progress:   *progress,
		Stats:      *stats,
		ConfigFile: *configFile,
	}

	// File values first, then command-line flags take precedence
	if *configFile != "" {
		fc, err := loadConfigFile(*configFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n\n%s", err, Usage())
		}

		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		fc.apply(config, set, *configFile)

		if fs.NArg() == 0 && len(fc.Inputs) > 0 {
			config.Inputs = pathing.ResolveAll(fc.Inputs, *configFile)
		}
	}

	if err := config.normalize(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// normalize canonicalizes the case of enumerated values.
func (c *Config) normalize() error {
	format, err := sink.ParseFormat(string(c.Format))
	if err != nil {
		return err
	}
	style, err := sink.ParsePathStyle(string(c.PathStyle))
	if err != nil {
		return err
	}
	compression, err := input.ParseCompression(string(c.Decompress))
	if err != nil {
		return err
	}

	c.Format, c.PathStyle, c.Decompress = format, style, compression
	return nil
}

func (fc *fileConfig) apply(c *Config, set map[string]bool, configFile string) {
	setString := func(flagName string, dst *string, v *string) {
		if v != nil && !set[flagName] {
			*dst = *v
		}
	}

	if fc.Output != nil && !set["o"] {
		c.Output = pathing.Resolve(*fc.Output, configFile)
	}
	setString("template", &c.Template, fc.Template)
	setString("filter", &c.Filter, fc.Filter)
	setString("where", &c.Where, fc.Where)

	if fc.Format != nil && !set["format"] {
		c.Format = sink.Format(*fc.Format)
	}
	if fc.PathStyle != nil && !set["path-style"] {
		c.PathStyle = sink.PathStyle(*fc.PathStyle)
	}
	if fc.Decompress != nil && !set["decompress"] {
		c.Decompress = input.Compression(*fc.Decompress)
	}
	if fc.BatchSize != nil && !set["batch"] {
		c.BatchSize = *fc.BatchSize
	}
	if fc.Buffer != nil && !set["buffer"] {
		c.Buffer = *fc.Buffer
	}
	if fc.Progress != nil && !set["progress"] {
		c.Progress = *fc.Progress
	}
	if fc.Stats != nil && !set["stats"] {
		c.Stats = *fc.Stats
	}
}

// loadConfigFile decodes a YAML defaults file. Unknown keys are rejected.
func loadConfigFile(filename string) (*fileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return &fc, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsoneater - flatten JSON documents into (path, value) pairs

Usage: jsoneater [options] [file1] [file2] ...

Reads standard input when no file is given or a file is "-".

Options:
  -o FILE                 Output file (default: stdout); the database file for -format sqlite
  -format FORMAT          csv, jsonl, yaml, template or sqlite (default: csv)
  -template TEXT          Go template executed per leaf with -format template
  -path-style STYLE       slash (address/0/street) or jsonpath ($['address'][0]['street'])
  -filter JSONPATH        Only keep leaves selected by a JSONPath expression
  -where EXPR             Only keep leaves for which EXPR is true (path, kind, value, text, depth)
  -buffer                 Read each input into memory and flatten it without copying strings
  -decompress MODE        auto, none, gzip, zstd or lz4 (default: auto)
  -batch N                Rows per insert with -format sqlite (default: 500)
  -progress N             Progress lines per second on stderr (0 disables)
  -stats                  Print a summary on stderr
  -config FILE            YAML file with defaults for the options above and an
                          "inputs" list used when no file is given
  -h, -help               Show this help message

Exit codes:
  0 success, 1 usage error, 2 unreadable or invalid input, 3 output failure

Examples:
  jsoneater data.json                                  # path, value lines on stdout
  jsoneater -format jsonl -o out.jsonl data.json.gz    # compressed input, JSON lines output
  jsoneater -filter '$..price' -where 'value > 10' data.json
  jsoneater -format sqlite -o leaves.db a.json b.json  # store leaves of both files
  jsoneater -format template -template '{{ .Path }}={{ json .Value }}{{ "\n" }}' data.json`
}
