package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// runFlags holds output, concurrency and pandoc flags.
type runFlags struct {
	output      string
	workers     int
	timeout     string
	continueOn  bool
	pandocPath  string
	templateDir string
}

// imageFlags holds image pre-processing flags.
type imageFlags struct {
	convertBW bool
	maxSize   string
	staticDir string
	disabled  bool
}

// latexFlags holds flags specific to LaTeX output.
type latexFlags struct {
	standalone bool
	template   string
	noListings bool
	pandocArgs []string
}

// pdfFlags holds flags specific to PDF output.
type pdfFlags struct {
	template string
	engine   string
	clean    bool
}

// convertFlags holds all flags for the latex and pdf commands.
type convertFlags struct {
	common commonFlags
	run    runFlags
	images imageFlags
	latex  latexFlags
	pdf    pdfFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRunFlags adds output, concurrency and pandoc flags to a FlagSet.
func addRunFlags(fs *flag.FlagSet, f *runFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions for a directory (0 = config or 1)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file pandoc timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.continueOn, "continue", false, "keep converting a directory after a failure")
	fs.StringVar(&f.pandocPath, "pandoc", "", "pandoc executable")
	fs.StringVar(&f.templateDir, "template-dir", "", "directory searched for <name>.latex")
}

// addImageFlags adds image pre-processing flags to a FlagSet.
func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.BoolVar(&f.convertBW, "bw", false, "convert images to grayscale")
	fs.StringVar(&f.maxSize, "max-size", "", "downscale images to fit N or WxH pixels")
	fs.StringVar(&f.staticDir, "static-dir", "", "site static directory for /img/... references")
	fs.BoolVar(&f.disabled, "no-images", false, "skip image pre-processing")
}

// addLaTeXFlags adds LaTeX output flags to a FlagSet.
func addLaTeXFlags(fs *flag.FlagSet, f *latexFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "produce a complete document with preamble")
	fs.StringVar(&f.template, "template", "", "template name or path")
	fs.BoolVar(&f.noListings, "no-listings", false, "render code blocks as verbatim instead of lstlisting")
	fs.StringArrayVar(&f.pandocArgs, "pandoc-arg", nil, "extra pandoc argument (repeatable)")
}

// addPDFFlags adds PDF output flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVar(&f.template, "template", "", "template name or path (default from config, eisvogel)")
	fs.StringVar(&f.engine, "engine", "", "LaTeX engine: xelatex, pdflatex, lualatex, tectonic, latexmk")
	fs.BoolVar(&f.clean, "clean", false, "strip code fence annotations before conversion")
}

// parseConvertFlags parses latex or pdf command flags and returns positional args.
func parseConvertFlags(mode outputMode, args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet(string(mode), flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addRunFlags(fs, &f.run)
	addImageFlags(fs, &f.images)
	if mode == modePDF {
		addPDFFlags(fs, &f.pdf)
	} else {
		addLaTeXFlags(fs, &f.latex)
	}

	fs.Usage = func() { printConvertUsage(usage, mode) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
