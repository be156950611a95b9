package main

import (
	"context"
	"io"
	"os"
	"time"

	md2latex "github.com/alnah/go-md2latex"
)

// Converter is the part of the library the CLI drives.
type Converter interface {
	ConvertToLaTeX(ctx context.Context, path string, opts md2latex.LaTeXOptions) (string, error)
	ConvertToPDF(ctx context.Context, path string, opts md2latex.PDFOptions) (string, error)
	BatchConvertLaTeX(ctx context.Context, dir string, opts md2latex.LaTeXOptions, bopts md2latex.BatchOptions) (*md2latex.BatchResult, error)
	BatchConvertPDF(ctx context.Context, dir string, opts md2latex.PDFOptions, bopts md2latex.BatchOptions) (*md2latex.BatchResult, error)
	PandocVersion(ctx context.Context) (string, error)
}

// Compile-time interface implementation check.
var _ Converter = (*md2latex.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	NewConverter func(opts ...md2latex.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		NewConverter: newLibraryConverter,
	}
}

func newLibraryConverter(opts ...md2latex.Option) (Converter, error) {
	c, err := md2latex.NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}
