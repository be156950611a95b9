package md2latex

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyPath            = errors.New("markdown path cannot be empty")
	ErrMalformedFrontMatter = errors.New("malformed front matter")
	ErrReadMarkdown         = errors.New("failed to read markdown")
	ErrWriteOutput          = errors.New("failed to write output")
	ErrConversion           = errors.New("conversion failed")
	ErrPandocNotFound       = errors.New("pandoc not found")
	ErrPDFEngineNotFound    = errors.New("PDF engine not found")
	ErrImageProcessing      = errors.New("image processing failed")
	ErrInvalidImageBounds   = errors.New("invalid image size bound")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrInvalidTemplateDir   = errors.New("invalid template directory")
	ErrInvalidWorkers       = errors.New("invalid worker count")
	ErrBatchAborted         = errors.New("skipped: batch stopped")
)
