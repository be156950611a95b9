package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2latex <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  latex      Convert markdown files to LaTeX")
	fmt.Fprintln(w, "  pdf        Convert markdown files to PDF")
	fmt.Fprintln(w, "  meta       Print the front matter of a markdown file")
	fmt.Fprintln(w, "  doctor     Check pandoc, LaTeX engine and template setup")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2latex help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the latex and pdf commands.
func printConvertUsage(w io.Writer, mode outputMode) {
	fmt.Fprintf(w, "Usage: md2latex %s <input> [flags]\n", mode)
	fmt.Fprintln(w)
	if mode == modePDF {
		fmt.Fprintln(w, "Convert markdown files to PDF through pandoc and a LaTeX engine.")
	} else {
		fmt.Fprintln(w, "Convert markdown files to LaTeX, removing code fence annotations.")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel conversions for a directory")
	fmt.Fprintln(w, "      --continue            Keep converting a directory after a failure")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pandoc:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-file timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --pandoc <path>       Pandoc executable")
	fmt.Fprintln(w, "      --template-dir <dir>  Directory searched for <name>.latex")
	if mode == modePDF {
		fmt.Fprintln(w, "      --template <s>        Template name or path (default: eisvogel)")
		fmt.Fprintln(w, "      --engine <s>          xelatex, pdflatex, lualatex, tectonic, latexmk")
		fmt.Fprintln(w, "      --clean               Strip code fence annotations first")
	} else {
		fmt.Fprintln(w, "      --standalone          Complete document with preamble")
		fmt.Fprintln(w, "      --template <s>        Template name or path")
		fmt.Fprintln(w, "      --no-listings         Verbatim code blocks instead of lstlisting")
		fmt.Fprintln(w, "      --pandoc-arg <arg>    Extra pandoc argument (repeatable)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --bw                  Convert images to grayscale")
	fmt.Fprintln(w, "      --max-size <s>        Fit images within N or WxH pixels")
	fmt.Fprintln(w, "      --static-dir <dir>    Site static directory for /img/... references")
	fmt.Fprintln(w, "      --no-images           Skip image pre-processing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "latex":
		printConvertUsage(env.Stdout, modeLaTeX)
	case "pdf":
		printConvertUsage(env.Stdout, modePDF)
	case "meta":
		fmt.Fprintln(env.Stdout, "Usage: md2latex meta <file>")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the YAML front matter of a markdown file.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: md2latex doctor [--json] [--engine <s>] [--template <s>] [--pandoc <path>]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that pandoc, the LaTeX engine and the PDF template are available.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2latex version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2latex help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
