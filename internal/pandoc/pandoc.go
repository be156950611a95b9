// Package pandoc invokes the pandoc CLI to turn Markdown into LaTeX or PDF.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/alnah/go-md2latex/internal/process"
)

// DefaultBinary is the executable looked up on PATH when none is configured.
const DefaultBinary = "pandoc"

// DefaultEngine is the TeX engine used for PDF output.
const DefaultEngine = "xelatex"

// Output formats understood by Convert. PDF output is LaTeX rendered by the
// engine; pandoc picks PDF from the .pdf output extension.
const (
	FormatLaTeX = "latex"
	FormatPDF   = "pdf"
)

// Sentinel errors for pandoc invocation.
var (
	ErrNotFound      = errors.New("pandoc executable not found")
	ErrFailed        = errors.New("pandoc conversion failed")
	ErrEmptySource   = errors.New("source path cannot be empty")
	ErrEmptyOutput   = errors.New("output path cannot be empty")
	ErrUnknownFormat = errors.New("unknown output format")
)

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements Runner using os/exec.
// The child runs in its own process group, killed as a whole on cancellation.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary and args are built by this package
	process.Isolate(cmd)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		_ = cmd.Wait()
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Request describes one conversion.
type Request struct {
	Source       string   // Markdown file handed to pandoc
	Output       string   // target file, overwritten
	Format       string   // FormatLaTeX or FormatPDF
	ResourcePath string   // directory for resolving relative resources (optional)
	Args         []string // passthrough arguments, in order
}

// Client invokes the pandoc binary through a Runner.
type Client struct {
	Runner Runner
	Binary string
}

// New creates a Client. A nil runner uses ExecRunner, an empty binary DefaultBinary.
func New(runner Runner, binary string) *Client {
	if runner == nil {
		runner = &ExecRunner{}
	}
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{Runner: runner, Binary: binary}
}

// Convert runs pandoc for req. The output file is written by pandoc itself.
func (c *Client) Convert(ctx context.Context, req Request) error {
	args, err := commandArgs(req)
	if err != nil {
		return err
	}

	_, stderr, err := c.Runner.Run(ctx, c.Binary, args...)
	if err != nil {
		return classify(c.Binary, stderr, err)
	}
	return nil
}

// Version returns the first line of `pandoc --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	stdout, stderr, err := c.Runner.Run(ctx, c.Binary, "--version")
	if err != nil {
		return "", classify(c.Binary, stderr, err)
	}
	line, _, _ := strings.Cut(stdout, "\n")
	return strings.TrimSpace(line), nil
}

// commandArgs builds the full argument vector:
// <source> --from=markdown --to=latex --output=<out> [--resource-path=<dir>] <args...>
func commandArgs(req Request) ([]string, error) {
	if req.Source == "" {
		return nil, ErrEmptySource
	}
	if req.Output == "" {
		return nil, ErrEmptyOutput
	}
	switch req.Format {
	case FormatLaTeX, FormatPDF:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	args := make([]string, 0, 5+len(req.Args))
	args = append(args,
		req.Source,
		"--from=markdown",
		"--to=latex",
		"--output="+req.Output,
	)
	if req.ResourcePath != "" {
		args = append(args, "--resource-path="+req.ResourcePath)
	}
	return append(args, req.Args...), nil
}

// classify maps a runner error to ErrNotFound or ErrFailed.
func classify(binary, stderr string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, binary, err)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%w: %s: %v", ErrFailed, msg, err)
	}
	return fmt.Errorf("%w: %v", ErrFailed, err)
}

// LaTeXArgs builds the passthrough arguments for LaTeX output, in order:
// --standalone, --template <t>, --listings, then extra.
func LaTeXArgs(standalone bool, template string, listings bool, extra []string) []string {
	var args []string
	if standalone {
		args = append(args, "--standalone")
	}
	if template != "" {
		args = append(args, "--template", template)
	}
	if listings {
		args = append(args, "--listings")
	}
	return append(args, extra...)
}

// PDFArgs builds the passthrough arguments for PDF output:
// --listings, --pdf-engine=<engine>, then --template <t> when set.
func PDFArgs(engine, template string) []string {
	if engine == "" {
		engine = DefaultEngine
	}
	args := []string{"--listings", "--pdf-engine=" + engine}
	if template != "" {
		args = append(args, "--template", template)
	}
	return args
}
