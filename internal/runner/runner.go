// Package runner applies the engine to schema files on disk and prints the CI report:
// one ✓/✗ line per schema, lint warnings, and a summary line.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openbindings/avrocheck-go"
	"github.com/openbindings/avrocheck-go/internal/codeccheck"
	"github.com/openbindings/avrocheck-go/lint"
)

// ErrDirNotFound is returned by Discover when the schema directory does not exist.
var ErrDirNotFound = errors.New("schema directory not found")

const rule = "----------------------------------------"

// Options controls how files are checked.
type Options struct {
	Extension       string
	Concurrency     int
	CodecCheck      bool
	Lint            bool
	LintOptions     []lint.Option
	ValidateOptions []avrocheck.ValidateOption
}

// Runner checks schema files and writes human-readable reports to out.
type Runner struct {
	opts   Options
	out    io.Writer
	logger *zap.SugaredLogger
}

// New returns a Runner. A nil logger disables logging.
func New(out io.Writer, logger *zap.SugaredLogger, opts Options) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if opts.Extension == "" {
		opts.Extension = ".avsc"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{opts: opts, out: out, logger: logger}
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path     string
	Doc      *avrocheck.Document
	Err      error
	Problems []avrocheck.ValidationError
	Warnings []lint.Warning
}

// Valid reports whether the file parsed and passed validation.
func (r FileResult) Valid() bool {
	return r.Err == nil && len(r.Problems) == 0
}

// Reason is the one-line explanation printed for an invalid file.
func (r FileResult) Reason() string {
	if r.Err != nil {
		return reason(r.Err)
	}
	msgs := make([]string, 0, len(r.Problems))
	for _, p := range r.Problems {
		msgs = append(msgs, p.Error())
	}
	return strings.Join(msgs, "; ")
}

func reason(err error) string {
	var pe *avrocheck.ParseError
	if !errors.As(err, &pe) {
		return err.Error()
	}
	if msg, ok := strings.CutPrefix(pe.Message, "invalid JSON: "); ok {
		if pe.Location != "" {
			return fmt.Sprintf("JSON parse error - %s (%s)", msg, pe.Location)
		}
		return "JSON parse error - " + msg
	}
	if pe.Location == "" || pe.Location == "<root>" {
		return pe.Message
	}
	return pe.Error()
}

// Discover lists the files in dir with the configured extension, sorted by name.
func (r *Runner) Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirNotFound, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), r.opts.Extension) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile reads and parses a schema file, returning the text it read.
func LoadFile(path string) (*avrocheck.Document, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	doc, err := avrocheck.Parse(string(data))
	if err != nil {
		return nil, string(data), err
	}
	return doc, string(data), nil
}

// CheckFile parses, validates and lints one file.
func (r *Runner) CheckFile(path string) FileResult {
	res := FileResult{Path: path}
	doc, text, err := LoadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Doc = doc
	vr := avrocheck.Validate(doc, r.opts.ValidateOptions...)
	res.Problems = vr.Errors
	if !vr.OK {
		return res
	}
	if r.opts.CodecCheck {
		cr, err := codeccheck.Check(text)
		if err != nil {
			res.Err = err
			return res
		}
		if err := codeccheck.Compare(doc, cr); err != nil {
			r.logger.Warnw("codec disagrees on canonical form", "path", path, "error", err)
		}
	}
	if r.opts.Lint {
		res.Warnings = lint.Lint(doc, r.opts.LintOptions...)
	}
	return res
}

// CheckFiles checks paths concurrently. Results keep the order of paths.
func (r *Runner) CheckFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.logger.Debugw("checking schema", "path", p)
			results[i] = r.CheckFile(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ValidateDir checks every schema file in dir and prints a report. It returns false when
// the directory is missing or any schema is invalid.
func (r *Runner) ValidateDir(ctx context.Context, dir string) (bool, error) {
	paths, err := r.Discover(dir)
	if errors.Is(err, ErrDirNotFound) {
		fmt.Fprintf(r.out, "Schema directory not found: %s\n", dir)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(paths) == 0 {
		fmt.Fprintf(r.out, "No %s files found in %s\n", r.opts.Extension, dir)
		return true, nil
	}

	fmt.Fprintf(r.out, "Validating schemas in %s...\n", dir)
	fmt.Fprintln(r.out, rule)
	results, err := r.CheckFiles(ctx, paths)
	if err != nil {
		return false, err
	}
	allValid := true
	for _, res := range results {
		r.printResult(res)
		if !res.Valid() {
			allValid = false
		}
	}
	fmt.Fprintln(r.out, rule)
	if allValid {
		fmt.Fprintln(r.out, "All schemas are valid!")
	} else {
		fmt.Fprintln(r.out, "Some schemas failed validation!")
	}
	r.logger.Debugw("validation finished", "dir", dir, "files", len(results), "valid", allValid)
	return allValid, nil
}

func (r *Runner) printResult(res FileResult) {
	if !res.Valid() {
		fmt.Fprintf(r.out, "✗ Schema %s is INVALID: %s\n", res.Path, res.Reason())
		return
	}
	fmt.Fprintf(r.out, "✓ Schema %s is valid\n", res.Path)
	for _, w := range res.Warnings {
		fmt.Fprintf(r.out, "  ⚠ %s\n", w.Message)
	}
}
