package main

// Notes:
// - This file contains test doubles shared across command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	md2latex "github.com/alnah/go-md2latex"
)

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// latexCall records one ConvertToLaTeX or BatchConvertLaTeX invocation.
type latexCall struct {
	path  string
	opts  md2latex.LaTeXOptions
	batch *md2latex.BatchOptions
}

// pdfCall records one ConvertToPDF or BatchConvertPDF invocation.
type pdfCall struct {
	path  string
	opts  md2latex.PDFOptions
	batch *md2latex.BatchOptions
}

// mockConverter implements Converter without running pandoc.
type mockConverter struct {
	mu         sync.Mutex
	latexCalls []latexCall
	pdfCalls   []pdfCall

	err         error
	batchResult *md2latex.BatchResult
	batchErr    error
	version     string
	versionErr  error
}

var _ Converter = (*mockConverter)(nil)

func (m *mockConverter) ConvertToLaTeX(_ context.Context, path string, opts md2latex.LaTeXOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latexCalls = append(m.latexCalls, latexCall{path: path, opts: opts})
	if m.err != nil {
		return "", m.err
	}
	return filepath.Join(opts.OutputDir, "out.tex"), nil
}

func (m *mockConverter) ConvertToPDF(_ context.Context, path string, opts md2latex.PDFOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdfCalls = append(m.pdfCalls, pdfCall{path: path, opts: opts})
	if m.err != nil {
		return "", m.err
	}
	return filepath.Join(opts.OutputDir, "out.pdf"), nil
}

func (m *mockConverter) BatchConvertLaTeX(_ context.Context, dir string, opts md2latex.LaTeXOptions, bopts md2latex.BatchOptions) (*md2latex.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latexCalls = append(m.latexCalls, latexCall{path: dir, opts: opts, batch: &bopts})
	return m.batchResult, m.batchErr
}

func (m *mockConverter) BatchConvertPDF(_ context.Context, dir string, opts md2latex.PDFOptions, bopts md2latex.BatchOptions) (*md2latex.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdfCalls = append(m.pdfCalls, pdfCall{path: dir, opts: opts, batch: &bopts})
	return m.batchResult, m.batchErr
}

func (m *mockConverter) PandocVersion(_ context.Context) (string, error) {
	return m.version, m.versionErr
}

// ---------------------------------------------------------------------------
// Environment helpers
// ---------------------------------------------------------------------------

// newTestEnv returns an Environment whose converter factory hands out conv
// and counts the options it receives.
func newTestEnv(conv *mockConverter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := &Environment{
		Now:    func() time.Time { return clock },
		Stdout: &stdout,
		Stderr: &stderr,
		NewConverter: func(opts ...md2latex.Option) (Converter, error) {
			// Options must at least be valid for the real converter.
			if _, err := md2latex.NewConverter(opts...); err != nil {
				return nil, err
			}
			return conv, nil
		},
	}
	return env, &stdout, &stderr
}

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}
