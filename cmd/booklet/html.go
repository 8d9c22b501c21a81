package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-booklet"
	"github.com/alnah/go-booklet/internal/assets"
	"github.com/alnah/go-booklet/internal/config"
	"github.com/alnah/go-booklet/internal/fileutil"
	"github.com/alnah/go-booklet/internal/hints"
)

// filePermissions is rw-r--r--: PDFs are meant to be shared.
const filePermissions = 0o644

// Sentinel errors for HTML conversion.
var (
	ErrReadInput     = errors.New("failed to read input file")
	ErrWritePDF      = errors.New("failed to write PDF file")
	ErrConverterInit = errors.New("failed to initialize HTML converter")
)

// htmlConverter is the part of booklet.HTMLConverter used by the CLI.
type htmlConverter interface {
	Convert(ctx context.Context, in booklet.HTMLInput) ([]byte, error)
}

// Compile-time interface implementation check.
var _ htmlConverter = (*booklet.HTMLConverter)(nil)

// converterPool abstracts converter pool operations for testability.
type converterPool interface {
	Acquire(ctx context.Context) (htmlConverter, error)
	Release(htmlConverter)
	Size() int
}

// poolAdapter adapts booklet.ConverterPool to converterPool.
type poolAdapter struct {
	pool *booklet.ConverterPool
}

func (a *poolAdapter) Acquire(ctx context.Context) (htmlConverter, error) {
	c, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics if c did not come from Acquire.
func (a *poolAdapter) Release(c htmlConverter) {
	conv, ok := c.(*booklet.HTMLConverter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// htmlJob is one input file and where its PDF goes.
type htmlJob struct {
	InputPath  string
	OutputPath string
}

// htmlParams holds settings shared by every job of a run.
type htmlParams struct {
	gutenberg     bool
	noPageNumbers bool
	title         string
}

// htmlResult holds the outcome of a single conversion.
type htmlResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runHTMLCmd prints HTML or Markdown books to A5 PDFs ready for impose.
func runHTMLCmd(ctx context.Context, args []string, env *Environment) error {
	f, inputs, err := parseHTMLFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	cfg, err := loadProfile(f.common.config, env)
	if err != nil {
		return err
	}
	if err := mergeHTMLFlags(f, cfg); err != nil {
		return err
	}

	css, err := assets.ResolveStyle(cfg.HTML.Style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidStyleName) {
			return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	jobs := planHTMLJobs(inputs, f.output, cfg.Output.DefaultDir)

	size := min(booklet.ResolvePoolSize(cfg.HTML.Workers), len(jobs))
	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Browsers: %d\n", size)
	}
	pool := booklet.NewConverterPool(size, booklet.WithStyle(css), booklet.WithTimeout(timeout))
	defer func() {
		if cerr := pool.Close(); cerr != nil && f.common.verbose {
			fmt.Fprintf(env.Stderr, "warning: closing browsers: %v\n", cerr)
		}
	}()

	params := &htmlParams{
		gutenberg:     cfg.HTML.Gutenberg,
		noPageNumbers: cfg.HTML.NoPageNumbers,
		title:         f.title,
	}
	results := convertBatch(ctx, &poolAdapter{pool: pool}, jobs, params)
	return reportHTMLResults(results, f.common, env)
}

// mergeHTMLFlags applies explicitly set flags over the profile.
func mergeHTMLFlags(f *htmlFlags, cfg *config.Config) error {
	if f.changed("style") {
		cfg.HTML.Style = f.style
	}
	if f.changed("timeout") {
		cfg.HTML.Timeout = f.timeout
	}
	if f.changed("workers") {
		cfg.HTML.Workers = f.workers
	}
	if f.changed("gutenberg") {
		cfg.HTML.Gutenberg = f.gutenberg
	}
	if f.changed("no-page-numbers") {
		cfg.HTML.NoPageNumbers = f.noPageNumbers
	}
	return cfg.Validate()
}

// planHTMLJobs decides the output path of every input. A single input may
// name its output file; with several inputs the output is a directory.
// Without -o, PDFs go to defaultDir, or next to their source.
func planHTMLJobs(inputs []string, output, defaultDir string) []htmlJob {
	outDir := defaultDir
	if output != "" {
		if len(inputs) == 1 && fileutil.HasExtension(output, ".pdf") {
			return []htmlJob{{InputPath: inputs[0], OutputPath: output}}
		}
		outDir = output
	}

	jobs := make([]htmlJob, len(inputs))
	for i, in := range inputs {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(in)
		}
		jobs[i] = htmlJob{InputPath: in, OutputPath: filepath.Join(dir, fileutil.Stem(in)+".pdf")}
	}
	return jobs
}

// convertBatch processes jobs concurrently, one converter per worker.
// Results are returned in input order.
func convertBatch(ctx context.Context, pool converterPool, jobs []htmlJob, params *htmlParams) []htmlResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]htmlResult, len(jobs))
	queue := make(chan int, len(jobs))
	var wg sync.WaitGroup

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				if ctx.Err() == nil {
					err = fmt.Errorf("%w: %w", ErrConverterInit, err)
				}
				for idx := range queue {
					results[idx] = htmlResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = htmlResult{InputPath: jobs[idx].InputPath, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, conv, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// convertFile converts one file and writes its PDF atomically.
func convertFile(ctx context.Context, conv htmlConverter, job htmlJob, params *htmlParams) htmlResult {
	start := time.Now()
	result := htmlResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	fail := func(err error) htmlResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(job.InputPath) // #nosec G304 -- user-provided input
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	sourceDir, err := filepath.Abs(filepath.Dir(job.InputPath))
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	title := params.title
	if title == "" {
		title = fileutil.Stem(job.InputPath)
	}

	pdf, err := conv.Convert(ctx, booklet.HTMLInput{
		Content:         string(content),
		Markdown:        fileutil.HasExtension(job.InputPath, ".md", ".markdown"),
		Gutenberg:       params.gutenberg,
		SourceDir:       sourceDir,
		Title:           title,
		HidePageNumbers: params.noPageNumbers,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: %w%s", ErrCreateOutputDir, err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteFileAtomic(job.OutputPath, pdf, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWritePDF, err))
	}

	result.Duration = time.Since(start)
	return result
}

// withHTMLHint appends a hint for browser failures.
func withHTMLHint(err error) error {
	switch {
	case errors.Is(err, booklet.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserConnect())
	case errors.Is(err, booklet.ErrPageLoad):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}
	return err
}

// reportHTMLResults prints per-file outcomes and returns an error when any
// conversion failed. A single failure is returned as is.
func reportHTMLResults(results []htmlResult, common commonFlags, env *Environment) error {
	var failed int
	var first error

	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = withHTMLHint(r.Err)
			}
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}
		if common.quiet {
			continue
		}
		if common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return first
	default:
		return fmt.Errorf("%d of %d files failed: %w", failed, len(results), first)
	}
}
