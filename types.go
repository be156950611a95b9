package md2latex

import (
	"errors"
	"fmt"
	"time"

	"github.com/alnah/go-md2latex/internal/images"
)

// Default option values.
const (
	DefaultPDFTemplate = "eisvogel"
	DefaultPDFEngine   = "xelatex"
	DefaultWorkers     = 1
)

// ImageBounds caps image dimensions in pixels. The zero value means unbounded.
type ImageBounds struct {
	Width  int
	Height int
}

// IsZero reports whether no bound is set.
func (b ImageBounds) IsZero() bool {
	return b.Width == 0 && b.Height == 0
}

// ParseImageBounds parses "800" (800x800) or "1200x800".
// An empty string is the zero bound.
func ParseImageBounds(s string) (ImageBounds, error) {
	b, err := images.ParseBounds(s)
	if err != nil {
		return ImageBounds{}, fmt.Errorf("%w: %v", ErrInvalidImageBounds, err)
	}
	return ImageBounds{Width: b.Width, Height: b.Height}, nil
}

// ImageOptions are shared by LaTeX and PDF conversions.
type ImageOptions struct {
	OutputDir string      // Empty = current directory
	ConvertBW bool        // Grayscale raster images
	MaxSize   ImageBounds // Zero = unbounded
	StaticDir string      // Resolves site-absolute references such as /img/x.png
}

// LaTeXOptions configures ConvertToLaTeX.
type LaTeXOptions struct {
	ImageOptions
	Standalone bool     // Full document with preamble
	Template   string   // Name or path; empty = pandoc default
	Listings   bool     // Code blocks as lstlisting
	ExtraArgs  []string // Appended to the pandoc command line
}

// DefaultLaTeXOptions returns LaTeX options with listings enabled.
func DefaultLaTeXOptions() LaTeXOptions {
	return LaTeXOptions{Listings: true}
}

// PDFOptions configures ConvertToPDF.
type PDFOptions struct {
	ImageOptions
	Template      string // Name or path; empty = pandoc default
	Engine        string // LaTeX engine; empty = xelatex
	CleanMarkdown bool   // Apply the Markdown cleaner before pandoc
}

// DefaultPDFOptions returns PDF options using eisvogel and xelatex.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Template: DefaultPDFTemplate,
		Engine:   DefaultPDFEngine,
	}
}

// BatchOptions configures directory conversion.
type BatchOptions struct {
	Workers         int  // Concurrent conversions; 0 = DefaultWorkers
	ContinueOnError bool // false = the first failure skips the remaining files
}

// FileResult is the outcome of one file in a batch.
type FileResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// Skipped reports whether the file was never attempted.
func (r FileResult) Skipped() bool {
	return errors.Is(r.Err, ErrBatchAborted)
}

// BatchResult holds per-file outcomes in directory listing order.
type BatchResult struct {
	Results []FileResult
}

// Succeeded returns the number of converted files.
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, fr := range r.Results {
		if fr.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of attempted files that failed.
func (r *BatchResult) Failed() int {
	n := 0
	for _, fr := range r.Results {
		if fr.Err != nil && !fr.Skipped() {
			n++
		}
	}
	return n
}

// Skipped returns the number of files left unattempted after an abort.
func (r *BatchResult) Skipped() int {
	n := 0
	for _, fr := range r.Results {
		if fr.Skipped() {
			n++
		}
	}
	return n
}

// Err joins the errors of failed files, each prefixed with its path.
// Returns nil when every attempted file succeeded.
func (r *BatchResult) Err() error {
	var errs []error
	for _, fr := range r.Results {
		if fr.Err != nil && !fr.Skipped() {
			errs = append(errs, fmt.Errorf("%s: %w", fr.InputPath, fr.Err))
		}
	}
	return errors.Join(errs...)
}
