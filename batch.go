package md2latex

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// convertFunc converts one file and returns its output path.
type convertFunc func(ctx context.Context, path string) (string, error)

// BatchConvertLaTeX converts every *.md entry of dir with ConvertToLaTeX.
//
// Without ContinueOnError the first failure cancels the batch: the returned
// error is that failure and unattempted files report ErrBatchAborted.
// With ContinueOnError every file is attempted and the error is nil unless
// dir cannot be listed or ctx is cancelled; inspect BatchResult.Err.
// Files not started when ctx is cancelled are reported as skipped.
func (c *Converter) BatchConvertLaTeX(ctx context.Context, dir string, opts LaTeXOptions, bopts BatchOptions) (*BatchResult, error) {
	return c.batch(ctx, dir, bopts, func(ctx context.Context, path string) (string, error) {
		return c.ConvertToLaTeX(ctx, path, opts)
	})
}

// BatchConvertPDF converts every *.md entry of dir with ConvertToPDF.
// Failure handling follows BatchConvertLaTeX.
func (c *Converter) BatchConvertPDF(ctx context.Context, dir string, opts PDFOptions, bopts BatchOptions) (*BatchResult, error) {
	return c.batch(ctx, dir, bopts, func(ctx context.Context, path string) (string, error) {
		return c.ConvertToPDF(ctx, path, opts)
	})
}

// batch converts the Markdown files of dir, at most workers at a time,
// dispatching them in listing order.
func (c *Converter) batch(ctx context.Context, dir string, bopts BatchOptions, convert convertFunc) (*BatchResult, error) {
	if dir == "" {
		return nil, ErrEmptyPath
	}

	workers := bopts.Workers
	if workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, workers)
	}
	if workers == 0 {
		workers = DefaultWorkers
	}

	files, err := fileutil.ListMarkdown(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrReadMarkdown, dir, err)
	}

	result := &BatchResult{Results: make([]FileResult, len(files))}
	if len(files) == 0 {
		return result, nil
	}
	if workers > len(files) {
		workers = len(files)
	}

	batchCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		abortOnce sync.Once
		abortErr  error
	)
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for idx, path := range files {
		g.Go(func() error {
			if batchCtx.Err() != nil {
				result.Results[idx] = FileResult{
					InputPath: path,
					Err:       skipCause(batchCtx),
				}
				return nil
			}

			fr := convertOne(batchCtx, path, convert)
			result.Results[idx] = fr

			if fr.Err != nil && !bopts.ContinueOnError {
				abortOnce.Do(func() {
					abortErr = fmt.Errorf("%s: %w", fr.InputPath, fr.Err)
					cancel(ErrBatchAborted)
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	if abortErr != nil {
		return result, abortErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// skipCause is the error recorded for a file never started. It always wraps
// ErrBatchAborted, plus the caller's cancellation cause when there is one.
func skipCause(ctx context.Context) error {
	cause := context.Cause(ctx)
	if errors.Is(cause, ErrBatchAborted) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrBatchAborted, cause)
}

// convertOne converts a single file and times it.
func convertOne(ctx context.Context, path string, convert convertFunc) FileResult {
	start := time.Now()
	out, err := convert(ctx, path)
	return FileResult{
		InputPath:  path,
		OutputPath: out,
		Err:        err,
		Duration:   time.Since(start),
	}
}
