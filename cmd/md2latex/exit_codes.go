package main

import (
	"errors"
	"os"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/config"
)

// Exit codes for md2latex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitConverter = 4 // pandoc or LaTeX engine errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	// Checked first: a missing template is reported through ErrConversion.
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, md2latex.ErrTemplateNotFound) ||
		errors.Is(err, md2latex.ErrInvalidTemplateDir) ||
		errors.Is(err, md2latex.ErrInvalidImageBounds) ||
		errors.Is(err, md2latex.ErrInvalidWorkers) ||
		errors.Is(err, md2latex.ErrMalformedFrontMatter) {
		return ExitUsage
	}

	// Converter errors (exit 4)
	if errors.Is(err, md2latex.ErrPandocNotFound) ||
		errors.Is(err, md2latex.ErrPDFEngineNotFound) ||
		errors.Is(err, md2latex.ErrConversion) {
		return ExitConverter
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2latex.ErrEmptyPath) ||
		errors.Is(err, md2latex.ErrReadMarkdown) ||
		errors.Is(err, md2latex.ErrWriteOutput) ||
		errors.Is(err, md2latex.ErrImageProcessing) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
