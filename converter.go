package md2latex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/images"
	"github.com/alnah/go-md2latex/internal/pandoc"
	"github.com/alnah/go-md2latex/internal/pipeline"
	"github.com/alnah/go-md2latex/internal/templates"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownCleaner    = (*pipeline.DocusaurusCleaner)(nil)
	_ pipeline.LaTeXPostprocessor = (*pipeline.PandocLaTeXCleaner)(nil)
	_ pandoc.Runner               = (*pandoc.ExecRunner)(nil)
	_ CommandRunner               = (*pandoc.ExecRunner)(nil)
	_ ImageProcessor              = (*defaultImageProcessor)(nil)
	_ ImageProcessor              = NopImageProcessor{}
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
// Implementations must stop the command when ctx is done.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ImageJob is handed to an ImageProcessor before conversion.
type ImageJob struct {
	SourcePath string
	ImageOptions
}

// ImageProcessor prepares the images referenced by a Markdown file.
// It returns the path of the Markdown file to convert, which may be
// SourcePath itself or a rewritten copy keeping the same stem.
type ImageProcessor interface {
	ProcessImages(ctx context.Context, job ImageJob) (string, error)
}

// NopImageProcessor returns the source path unchanged.
type NopImageProcessor struct{}

func (NopImageProcessor) ProcessImages(_ context.Context, job ImageJob) (string, error) {
	return job.SourcePath, nil
}

// defaultImageProcessor adapts images.Processor to ImageProcessor.
type defaultImageProcessor struct {
	p *images.Processor
}

func (d *defaultImageProcessor) ProcessImages(ctx context.Context, job ImageJob) (string, error) {
	return d.p.Process(ctx, images.Job{
		SourcePath: job.SourcePath,
		OutputDir:  job.OutputDir,
		ConvertBW:  job.ConvertBW,
		MaxSize:    images.Bounds{Width: job.MaxSize.Width, Height: job.MaxSize.Height},
		StaticDir:  job.StaticDir,
	})
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	pandocPath  string
	timeout     time.Duration // 0 = none
	tempDir     string        // empty = os.TempDir()
	templateDir string
	notices     io.Writer
}

// WithCommandRunner replaces the process runner used to invoke pandoc.
func WithCommandRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.runner = r
	}
}

// WithPandocPath sets the pandoc binary. Defaults to "pandoc" from PATH.
func WithPandocPath(path string) Option {
	return func(c *Converter) {
		c.cfg.pandocPath = path
	}
}

// WithImageProcessor replaces the default image pre-processor.
// Use NopImageProcessor{} to convert files as they are.
func WithImageProcessor(p ImageProcessor) Option {
	return func(c *Converter) {
		c.images = p
	}
}

// WithNoticeWriter sets where completion notices are written.
// Defaults to os.Stdout; nil discards them.
func WithNoticeWriter(w io.Writer) Option {
	return func(c *Converter) {
		if w == nil {
			w = io.Discard
		}
		c.cfg.notices = w
	}
}

// WithTimeout bounds each single-file conversion. Zero disables the bound.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("md2latex: WithTimeout duration must not be negative")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithTempDir sets the directory for scratch Markdown files.
func WithTempDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.tempDir = dir
	}
}

// WithTemplateDir sets a directory searched for <name>.latex templates
// before pandoc's own data directory.
func WithTemplateDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.templateDir = dir
	}
}

// Converter runs Markdown files through pandoc.
// A Converter is safe for concurrent use.
type Converter struct {
	cfg        converterConfig
	runner     CommandRunner
	images     ImageProcessor
	mdCleaner  pipeline.MarkdownCleaner
	texCleaner pipeline.LaTeXPostprocessor
	pandoc     *pandoc.Client
	templates  *templates.Resolver

	noticeMu sync.Mutex
}

// NewConverter creates a Converter with default configuration.
// Returns ErrInvalidTemplateDir if WithTemplateDir names an unusable directory.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:        converterConfig{notices: os.Stdout},
		runner:     &pandoc.ExecRunner{},
		images:     &defaultImageProcessor{p: images.NewProcessor()},
		mdCleaner:  &pipeline.DocusaurusCleaner{},
		texCleaner: &pipeline.PandocLaTeXCleaner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.images == nil {
		c.images = NopImageProcessor{}
	}

	resolver, err := templates.NewResolver(c.cfg.templateDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateDir, err)
	}
	c.templates = resolver
	c.pandoc = pandoc.New(c.runner, c.cfg.pandocPath)

	return c, nil
}

// PandocVersion reports the first line of `pandoc --version`.
func (c *Converter) PandocVersion(ctx context.Context) (string, error) {
	v, err := c.pandoc.Version(ctx)
	if err != nil {
		return "", classifyPandocError(err)
	}
	return v, nil
}

// checkSource rejects empty and unreadable input paths before any work starts.
func checkSource(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrReadMarkdown, path)
	}
	return nil
}

// withTimeout applies the per-file timeout, if any.
func (c *Converter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.timeout)
	}
	return context.WithCancel(ctx)
}

// processImages runs the image pre-processor for path.
func (c *Converter) processImages(ctx context.Context, path string, opts ImageOptions) (string, error) {
	processed, err := c.images.ProcessImages(ctx, ImageJob{SourcePath: path, ImageOptions: opts})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}
	return processed, nil
}

// resolveTemplate maps a template option to the value passed to pandoc.
func (c *Converter) resolveTemplate(ref string) (string, error) {
	t, err := c.templates.Resolve(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	}
	return t, nil
}

// prepareOutput creates the output directory and returns the output path.
func prepareOutput(src, outputDir, extension string) (string, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, fileutil.DirPermissions); err != nil {
			return "", fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
		}
	}
	return fileutil.OutputPath(src, outputDir, extension), nil
}

// writeScratch cleans the Markdown at path and writes it to a scratch file.
// The caller must call cleanup.
func (c *Converter) writeScratch(path string) (scratch string, cleanup func(), err error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided document
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	cleaned := c.mdCleaner.CleanMarkdown(string(content))

	scratch, cleanup, err = fileutil.WriteTempFile(c.cfg.tempDir, cleaned, "md")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return scratch, cleanup, nil
}

// runPandoc invokes pandoc and maps its errors to library sentinels.
func (c *Converter) runPandoc(ctx context.Context, req pandoc.Request) error {
	if err := c.pandoc.Convert(ctx, req); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrConversion, ctxErr)
		}
		return classifyPandocError(err)
	}
	return nil
}

// classifyPandocError maps pandoc failures to library sentinels. Missing
// engines and templates are recognised from pandoc's own messages.
func classifyPandocError(err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, pandoc.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrPandocNotFound, err)
	case strings.Contains(msg, "--pdf-engine"):
		return fmt.Errorf("%w: %w: %v", ErrConversion, ErrPDFEngineNotFound, err)
	case strings.Contains(msg, "Could not find data file templates/"):
		return fmt.Errorf("%w: %w: %v", ErrConversion, ErrTemplateNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrConversion, err)
}

// resourceDir returns the absolute directory of path, used by pandoc to
// resolve relative resources when it reads a copy stored elsewhere.
func resourceDir(path string) string {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return filepath.Dir(path)
	}
	return dir
}

// notify writes a completion notice.
func (c *Converter) notify(outPath string) {
	c.noticeMu.Lock()
	defer c.noticeMu.Unlock()
	_, _ = fmt.Fprintf(c.cfg.notices, "Created %s\n", outPath)
}
