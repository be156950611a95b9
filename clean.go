package md2latex

import "github.com/alnah/go-md2latex/internal/pipeline"

// CleanMarkdown strips code-fence highlight annotations ({1,3-5},
// showLineNumbers) and removes blank lines inside fenced code blocks.
// Text outside fenced blocks is returned unchanged.
func CleanMarkdown(content string) string {
	return pipeline.CleanMarkdown(content)
}

// CleanLaTeX removes the \tightlist lines and default enumeration label
// definitions pandoc emits for lists.
func CleanLaTeX(content string) string {
	return pipeline.CleanLaTeX(content)
}
