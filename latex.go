package md2latex

import (
	"context"
	"fmt"
	"os"

	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/pandoc"
)

// ConvertToLaTeX converts the Markdown file at path to <OutputDir>/<stem>.tex
// and returns the output path.
//
// Images are pre-processed, code-fence annotations are stripped, pandoc runs
// on a scratch copy and its output is post-processed in place. The scratch
// copy is removed on every exit path.
func (c *Converter) ConvertToLaTeX(ctx context.Context, path string, opts LaTeXOptions) (string, error) {
	if err := checkSource(path); err != nil {
		return "", err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	processed, err := c.processImages(ctx, path, opts.ImageOptions)
	if err != nil {
		return "", err
	}

	scratch, cleanup, err := c.writeScratch(processed)
	if err != nil {
		return "", err
	}
	defer cleanup()

	template, err := c.resolveTemplate(opts.Template)
	if err != nil {
		return "", err
	}

	outPath, err := prepareOutput(path, opts.OutputDir, "tex")
	if err != nil {
		return "", err
	}

	err = c.runPandoc(ctx, pandoc.Request{
		Source:       scratch,
		Output:       outPath,
		Format:       pandoc.FormatLaTeX,
		ResourcePath: resourceDir(path),
		Args:         pandoc.LaTeXArgs(opts.Standalone, template, opts.Listings, opts.ExtraArgs),
	})
	if err != nil {
		return "", err
	}

	tex, err := os.ReadFile(outPath) // #nosec G304 -- path built from output dir
	if err != nil {
		return "", fmt.Errorf("%w: reading pandoc output: %v", ErrConversion, err)
	}

	cleaned := c.texCleaner.CleanLaTeX(string(tex))
	// #nosec G306 -- LaTeX output is meant to be readable
	if err := os.WriteFile(outPath, []byte(cleaned), fileutil.FilePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	c.notify(outPath)
	return outPath, nil
}
