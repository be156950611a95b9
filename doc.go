// Package md2latex converts Docusaurus-flavoured Markdown to LaTeX and PDF
// through pandoc.
//
// # Quick Start
//
// Create a converter and convert a file:
//
//	conv, err := md2latex.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	texPath, err := conv.ConvertToLaTeX(ctx, "docs/intro.md", md2latex.DefaultLaTeXOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Each call prints "Created <path>" on the converter's notice writer.
//
// # Conversion Pipeline
//
// LaTeX output follows these stages:
//
//  1. Image pre-processing (references made absolute, optional grayscale and downscale)
//  2. Markdown cleaning (code-fence highlight annotations, blank lines in code blocks)
//  3. pandoc run on a scratch copy of the cleaned Markdown
//  4. LaTeX post-processing (\tightlist and default enumeration labels removed)
//
// PDF output runs image pre-processing, then pandoc with a LaTeX engine
// (xelatex by default) and the eisvogel template. Set PDFOptions.CleanMarkdown
// to apply stage 2 as well.
//
// # Batch Conversion
//
// BatchConvertLaTeX and BatchConvertPDF convert every *.md entry of a
// directory (non-recursive):
//
//	res, err := conv.BatchConvertPDF(ctx, "docs", md2latex.DefaultPDFOptions(),
//	    md2latex.BatchOptions{Workers: 4, ContinueOnError: true})
//
// By default the first failure stops the batch. With ContinueOnError every
// file is attempted and failures are collected in the BatchResult.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := md2latex.NewConverter(
//	    md2latex.WithPandocPath("/opt/pandoc/bin/pandoc"),
//	    md2latex.WithTimeout(2 * time.Minute),
//	    md2latex.WithTemplateDir("./templates"),
//	    md2latex.WithNoticeWriter(io.Discard),
//	)
//
// # Front Matter
//
// ExtractFrontMatter returns the YAML block at the top of a document as a map.
// It does not alter conversion; pandoc reads the same block as metadata.
package md2latex
