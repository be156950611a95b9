// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// GOOS is the target platform used to pick install commands.
var GOOS = runtime.GOOS

// ForPandocMissing returns install instructions for pandoc.
func ForPandocMissing() string {
	var hints []string

	switch {
	case IsInContainer():
		hints = append(hints, "add pandoc to the image (apt-get install -y pandoc)")
	case GOOS == "darwin":
		hints = append(hints, "install with: brew install pandoc")
	case GOOS == "windows":
		hints = append(hints, "install with: winget install JohnMacFarlane.Pandoc")
	default:
		hints = append(hints, "install pandoc from your package manager or https://pandoc.org/installing.html")
	}
	hints = append(hints, "or set pandoc.path in the config file")

	return formatHints(hints)
}

// ForPDFEngine returns hints when pandoc cannot run the LaTeX engine.
func ForPDFEngine(engine string) string {
	if engine == "" {
		engine = "xelatex"
	}

	var hints []string
	if engine == "tectonic" {
		hints = append(hints, "install tectonic (https://tectonic-typesetting.github.io)")
	} else {
		hints = append(hints, "install a TeX distribution that provides "+engine+" (TeX Live, MacTeX, MiKTeX)")
	}
	hints = append(hints, "or choose another engine with --engine")

	return formatHints(hints)
}

// ForTemplateNotFound returns hints for a template pandoc could not load.
// dataDirs are pandoc's user data directories, most preferred first.
func ForTemplateNotFound(name string, dataDirs []string) string {
	if name == "" {
		return ""
	}
	if fileutil.IsFilePath(name) {
		return format("check that " + name + " exists")
	}

	hint := "pass a file with --template ./" + name + ".latex"
	if len(dataDirs) > 0 {
		hint = "copy " + name + ".latex into " + filepath.Join(dataDirs[0], "templates") + " or " + hint
	}
	return format(hint)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2latex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-md2latex/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForImageBounds returns the accepted --max-size syntax.
func ForImageBounds() string {
	return format("use a single size (800) or WIDTHxHEIGHT (1200x800)")
}

// ForLaTeXError returns hints when the LaTeX run itself failed.
func ForLaTeXError() string {
	return format("run the latex command first and compile the .tex by hand to see the full log")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
