package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput = errors.New("no input specified")
	ErrUsage   = errors.New("invalid usage")
)

// outputMode selects the target format of a conversion command.
type outputMode string

const (
	modeLaTeX outputMode = "latex"
	modePDF   outputMode = "pdf"
)

// conversionParams groups everything resolved from config and flags.
type conversionParams struct {
	latex md2latex.LaTeXOptions
	pdf   md2latex.PDFOptions
	batch md2latex.BatchOptions
}

// runConvert orchestrates a latex or pdf command.
func runConvert(ctx context.Context, mode outputMode, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positionalArgs))
	}

	// Load configuration
	cfg := config.DefaultConfig()
	if flags.common.config != "" {
		var err error
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return configHint(fmt.Errorf("loading config: %w", err), flags.common.config)
		}
	}

	// Merge CLI flags into config (CLI wins), then re-check bounds
	mergeFlags(flags, cfg)
	if err := cfg.ExpandHome(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return withHint(err, mode, cfg)
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return withHint(err, mode, cfg)
	}

	converter, err := newConverter(cfg, flags.common.quiet, env)
	if err != nil {
		return withHint(err, mode, cfg)
	}

	start := env.Now()
	if fileutil.DirExists(inputPath) {
		err = convertDirectory(ctx, mode, converter, inputPath, params, flags, env)
	} else {
		err = convertFile(ctx, mode, converter, inputPath, params)
	}
	if err != nil {
		return withHint(err, mode, cfg)
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Done in %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// mergeFlags applies explicitly set flags on top of cfg.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// Output and run
	if flags.run.output != "" {
		cfg.Output.DefaultDir = flags.run.output
	}
	if flags.run.workers != 0 {
		cfg.Batch.Workers = flags.run.workers
	}
	if flags.run.timeout != "" {
		cfg.Pandoc.Timeout = flags.run.timeout
	}
	if flags.run.continueOn {
		cfg.Batch.ContinueOnError = true
	}
	if flags.run.pandocPath != "" {
		cfg.Pandoc.Path = flags.run.pandocPath
	}
	if flags.run.templateDir != "" {
		cfg.Pandoc.TemplateDir = flags.run.templateDir
	}

	// Images
	if flags.images.convertBW {
		cfg.Images.ConvertBW = true
	}
	if flags.images.maxSize != "" {
		cfg.Images.MaxSize = flags.images.maxSize
	}
	if flags.images.staticDir != "" {
		cfg.Images.StaticDir = flags.images.staticDir
	}
	if flags.images.disabled {
		cfg.Images.Disabled = true
	}

	// LaTeX
	if flags.latex.standalone {
		cfg.LaTeX.Standalone = true
	}
	if flags.latex.template != "" {
		cfg.LaTeX.Template = flags.latex.template
	}
	if flags.latex.noListings {
		cfg.LaTeX.Listings = false
	}
	if len(flags.latex.pandocArgs) > 0 {
		cfg.LaTeX.ExtraArgs = append(cfg.LaTeX.ExtraArgs, flags.latex.pandocArgs...)
	}

	// PDF
	if flags.pdf.template != "" {
		cfg.PDF.Template = flags.pdf.template
	}
	if flags.pdf.engine != "" {
		cfg.PDF.Engine = flags.pdf.engine
	}
	if flags.pdf.clean {
		cfg.PDF.Clean = true
	}
}

// resolveInputPath determines the input from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// buildParams turns the merged config into library options.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	bounds, err := md2latex.ParseImageBounds(cfg.Images.MaxSize)
	if err != nil {
		return nil, err
	}

	imageOpts := md2latex.ImageOptions{
		OutputDir: cfg.Output.DefaultDir,
		ConvertBW: cfg.Images.ConvertBW,
		MaxSize:   bounds,
		StaticDir: cfg.Images.StaticDir,
	}

	return &conversionParams{
		latex: md2latex.LaTeXOptions{
			ImageOptions: imageOpts,
			Standalone:   cfg.LaTeX.Standalone,
			Template:     cfg.LaTeX.Template,
			Listings:     cfg.LaTeX.Listings,
			ExtraArgs:    cfg.LaTeX.ExtraArgs,
		},
		pdf: md2latex.PDFOptions{
			ImageOptions:  imageOpts,
			Template:      cfg.PDF.Template,
			Engine:        cfg.PDF.Engine,
			CleanMarkdown: cfg.PDF.Clean,
		},
		batch: md2latex.BatchOptions{
			Workers:         cfg.Batch.Workers,
			ContinueOnError: cfg.Batch.ContinueOnError,
		},
	}, nil
}

// newConverter builds the library converter from config.
func newConverter(cfg *config.Config, quiet bool, env *Environment) (Converter, error) {
	timeout, err := cfg.Pandoc.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var notices io.Writer = env.Stdout
	if quiet {
		notices = io.Discard
	}

	opts := []md2latex.Option{
		md2latex.WithPandocPath(cfg.Pandoc.Path),
		md2latex.WithTimeout(timeout),
		md2latex.WithTemplateDir(cfg.Pandoc.TemplateDir),
		md2latex.WithNoticeWriter(notices),
	}
	if cfg.Images.Disabled {
		opts = append(opts, md2latex.WithImageProcessor(md2latex.NopImageProcessor{}))
	}

	return env.NewConverter(opts...)
}

// convertFile converts a single Markdown file.
func convertFile(ctx context.Context, mode outputMode, c Converter, path string, params *conversionParams) error {
	var err error
	if mode == modePDF {
		_, err = c.ConvertToPDF(ctx, path, params.pdf)
	} else {
		_, err = c.ConvertToLaTeX(ctx, path, params.latex)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// convertDirectory converts every Markdown file of dir and reports per file.
func convertDirectory(ctx context.Context, mode outputMode, c Converter, dir string, params *conversionParams, flags *convertFlags, env *Environment) error {
	var (
		result *md2latex.BatchResult
		err    error
	)
	if mode == modePDF {
		result, err = c.BatchConvertPDF(ctx, dir, params.pdf, params.batch)
	} else {
		result, err = c.BatchConvertLaTeX(ctx, dir, params.latex, params.batch)
	}
	if result == nil {
		return err
	}

	if len(result.Results) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, dir)
	}

	printResults(result, flags.common.quiet, flags.common.verbose, env)

	if err != nil {
		return err
	}
	return firstFailure(result)
}

// firstFailure returns the error of the first failed file, if any.
func firstFailure(result *md2latex.BatchResult) error {
	for _, r := range result.Results {
		if r.Err != nil && !r.Skipped() {
			return fmt.Errorf("%s: %w", r.InputPath, r.Err)
		}
	}
	return nil
}

// printResults outputs per-file failures, timings and the batch summary.
func printResults(result *md2latex.BatchResult, quiet, verbose bool, env *Environment) {
	for _, r := range result.Results {
		switch {
		case r.Skipped():
			if !quiet {
				fmt.Fprintf(env.Stderr, "SKIPPED %s\n", r.InputPath)
			}
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
		case verbose:
			fmt.Fprintf(env.Stderr, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		}
	}

	if quiet || len(result.Results) < 2 {
		return
	}

	summary := fmt.Sprintf("%d succeeded, %d failed", result.Succeeded(), result.Failed())
	if n := result.Skipped(); n > 0 {
		summary += fmt.Sprintf(", %d skipped", n)
	}
	fmt.Fprintf(env.Stdout, "\n%s\n", summary)
}
