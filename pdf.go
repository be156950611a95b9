package md2latex

import (
	"context"

	"github.com/alnah/go-md2latex/internal/pandoc"
)

// ConvertToPDF converts the Markdown file at path to <OutputDir>/<stem>.pdf
// and returns the output path.
//
// pandoc reads the pre-processed file directly unless opts.CleanMarkdown is
// set, in which case it reads a cleaned scratch copy as ConvertToLaTeX does.
func (c *Converter) ConvertToPDF(ctx context.Context, path string, opts PDFOptions) (string, error) {
	if err := checkSource(path); err != nil {
		return "", err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	source, err := c.processImages(ctx, path, opts.ImageOptions)
	if err != nil {
		return "", err
	}

	if opts.CleanMarkdown {
		scratch, cleanup, err := c.writeScratch(source)
		if err != nil {
			return "", err
		}
		defer cleanup()
		source = scratch
	}

	template, err := c.resolveTemplate(opts.Template)
	if err != nil {
		return "", err
	}

	outPath, err := prepareOutput(path, opts.OutputDir, "pdf")
	if err != nil {
		return "", err
	}

	err = c.runPandoc(ctx, pandoc.Request{
		Source:       source,
		Output:       outPath,
		Format:       pandoc.FormatPDF,
		ResourcePath: resourceDir(path),
		Args:         pandoc.PDFArgs(opts.Engine, template),
	})
	if err != nil {
		return "", err
	}

	c.notify(outPath)
	return outPath, nil
}
