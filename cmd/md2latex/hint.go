package main

import (
	"context"
	"errors"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/hints"
	"github.com/alnah/go-md2latex/internal/images"
	"github.com/alnah/go-md2latex/internal/templates"
)

// hintError appends an actionable hint to an error message while keeping
// the original error reachable for exit code mapping.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + e.hint }

func (e *hintError) Unwrap() error { return e.err }

// withHint attaches the hint matching err, if any.
func withHint(err error, mode outputMode, cfg *config.Config) error {
	if err == nil {
		return nil
	}
	hint := hintFor(err, mode, cfg)
	if hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// hintFor picks the hint for the most specific failure in err.
func hintFor(err error, mode outputMode, cfg *config.Config) string {
	switch {
	case errors.Is(err, md2latex.ErrPandocNotFound):
		return hints.ForPandocMissing()
	case errors.Is(err, md2latex.ErrPDFEngineNotFound):
		return hints.ForPDFEngine(cfg.PDF.Engine)
	case errors.Is(err, md2latex.ErrTemplateNotFound):
		template := cfg.LaTeX.Template
		if mode == modePDF {
			template = cfg.PDF.Template
		}
		return hints.ForTemplateNotFound(template, templates.PandocDataDirs())
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, md2latex.ErrInvalidImageBounds), errors.Is(err, images.ErrInvalidBounds):
		return hints.ForImageBounds()
	case errors.Is(err, md2latex.ErrWriteOutput):
		return hints.ForOutputDirectory()
	case mode == modePDF && errors.Is(err, md2latex.ErrConversion):
		return hints.ForLaTeXError()
	}
	return ""
}

// configHint attaches the config search hint to a loading failure.
func configHint(err error, name string) error {
	if !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	var searched []string
	if !fileutil.IsFilePath(name) {
		searched = config.SearchPaths(name)
	}
	return &hintError{err: err, hint: hints.ForConfigNotFound(searched)}
}
