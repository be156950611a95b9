package pipeline

import "regexp"

// Pandoc leftovers removed from LaTeX output.
var (
	// \tightlist emitted on its own line after \begin{itemize}/\begin{enumerate}
	tightlistLine = regexp.MustCompile(`(?m)^[ \t]*\\tightlist[ \t]*(?:\r?\n|\z)`)

	// Default first-level enumeration label
	labelEnumLine = regexp.MustCompile(`(?m)^[ \t]*\\def\\labelenumi\{\\arabic\{enumi\}\.\}[ \t]*(?:\r?\n|\z)`)
)

// LaTeXPostprocessor defines the contract for cleaning converter output.
type LaTeXPostprocessor interface {
	CleanLaTeX(content string) string
}

// PandocLaTeXCleaner removes pandoc list-formatting leftovers.
type PandocLaTeXCleaner struct{}

// CleanLaTeX implements LaTeXPostprocessor.
func (p *PandocLaTeXCleaner) CleanLaTeX(content string) string {
	return CleanLaTeX(content)
}

// CleanLaTeX drops standalone \tightlist lines and the default
// \def\labelenumi{\arabic{enumi}.} line. Definitions that merely mention
// \tightlist, such as \providecommand{\tightlist}{...}, are kept.
func CleanLaTeX(content string) string {
	content = tightlistLine.ReplaceAllString(content, "")
	return labelEnumLine.ReplaceAllString(content, "")
}
