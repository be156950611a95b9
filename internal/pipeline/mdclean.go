package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for fence handling.
var (
	// Opening or closing fence: indent, run of 3+ backticks or tildes, info string
	fenceLine = regexp.MustCompile("^([ \t]*)(`{3,}|~{3,})(.*)$")

	// Language tag at the start of an info string, followed by the meta string
	fenceLanguage = regexp.MustCompile(`^(\w[\w.+#-]*)(.*)$`)

	// Docusaurus line-highlight attributes: ```js {1,3-5}
	highlightAttrs = regexp.MustCompile(`^[ \t]+\{[^}\n]*\}`)

	// Docusaurus line numbering marker: ```js showLineNumbers
	lineNumbersMarker = regexp.MustCompile(`^[ \t]+showLineNumbers`)

	// List item marker and the whitespace after it: "- ", "  1. "
	listItem = regexp.MustCompile(`^([ \t]*)([-*+]|\d{1,9}[.)])([ \t]+|$)`)
)

// maxFenceIndent is the deepest a fence may be indented relative to its
// container (the margin, or the content column of a list item). Deeper lines
// belong to an indented code block.
const maxFenceIndent = 3

// MarkdownCleaner defines the contract for removing generator-specific syntax
// before the Markdown reaches pandoc.
type MarkdownCleaner interface {
	CleanMarkdown(content string) string
}

// DocusaurusCleaner strips Docusaurus code-fence annotations.
type DocusaurusCleaner struct{}

// CleanMarkdown rewrites fenced code blocks only:
//   - "```lang {attrs}" and "```lang showLineNumbers" become "```lang"
//   - blank lines inside a closed block are dropped
//
// Text outside fences is returned as is, and an unclosed fence at the end of
// the document keeps its body untouched. A fence line indented four columns
// past its container is indented code, not a fence. The result is a fixed point: cleaning
// it again changes nothing.
func (c *DocusaurusCleaner) CleanMarkdown(content string) string {
	return CleanMarkdown(content)
}

// CleanMarkdown is the function form of DocusaurusCleaner.CleanMarkdown.
func CleanMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	var (
		inBlock    bool
		opening    string   // fence run that opened the current block
		block      []string // body lines buffered until the closing fence
		listIndent int      // content column of the enclosing list item, 0 at the margin
		base       int      // listIndent when the current block opened
	)

	for _, line := range lines {
		if !inBlock {
			m := fenceLine.FindStringSubmatch(line)
			if m == nil || indentWidth(m[1]) > listIndent+maxFenceIndent {
				listIndent = listContext(line, listIndent)
				result = append(result, line)
				continue
			}
			listIndent = listContext(line, listIndent)
			inBlock = true
			opening = m[2]
			base = listIndent
			block = block[:0]
			result = append(result, m[1]+m[2]+stripFenceAnnotations(m[3]))
			continue
		}

		if isClosingFence(line, opening, base) {
			for _, body := range block {
				if !isBlankLine(body) {
					result = append(result, body)
				}
			}
			result = append(result, line)
			inBlock = false
			continue
		}

		block = append(block, line)
	}

	// Unclosed fence: emit the body unchanged.
	if inBlock {
		result = append(result, block...)
	}

	return strings.Join(result, "\n")
}

// stripFenceAnnotations removes every leading {attrs} and showLineNumbers token
// that follows the language tag. Other meta (title="...") is preserved.
func stripFenceAnnotations(info string) string {
	m := fenceLanguage.FindStringSubmatch(info)
	if m == nil {
		return info
	}

	lang, meta := m[1], m[2]
	stripped := false
	for {
		if rest, ok := consumeToken(meta, highlightAttrs); ok {
			meta, stripped = rest, true
			continue
		}
		if rest, ok := consumeToken(meta, lineNumbersMarker); ok {
			meta, stripped = rest, true
			continue
		}
		break
	}

	if stripped {
		meta = strings.TrimRight(meta, " \t")
	}
	return lang + meta
}

// consumeToken strips a leading token matched by re when it stands alone,
// i.e. is followed by whitespace or the end of the info string.
func consumeToken(meta string, re *regexp.Regexp) (string, bool) {
	loc := re.FindStringIndex(meta)
	if loc == nil {
		return meta, false
	}
	rest := meta[loc[1]:]
	if rest != "" && !strings.ContainsRune(" \t\r", rune(rest[0])) {
		return meta, false
	}
	return rest, true
}

// isClosingFence reports whether line closes a block opened by the given
// fence run: same character, at least as long, nothing but whitespace after.
func isClosingFence(line, opening string, base int) bool {
	m := fenceLine.FindStringSubmatch(line)
	if m == nil || indentWidth(m[1]) > base+maxFenceIndent {
		return false
	}
	run := m[2]
	if run[0] != opening[0] || len(run) < len(opening) {
		return false
	}
	return isBlankLine(m[3])
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// listContext tracks the list item a line belongs to. A list item line sets
// the content column, blank and indented lines keep it, and any other line
// at the margin ends the list.
func listContext(line string, current int) int {
	if m := listItem.FindStringSubmatch(line); m != nil {
		gap := len(m[3])
		if gap == 0 || gap > 4 {
			gap = 1
		}
		return indentWidth(m[1]) + len(m[2]) + gap
	}
	if isBlankLine(line) || line[0] == ' ' || line[0] == '\t' {
		return current
	}
	return 0
}

// indentWidth returns the column width of leading whitespace, with tab stops
// every four columns.
func indentWidth(indent string) int {
	w := 0
	for _, r := range indent {
		if r == '\t' {
			w += 4 - w%4
		} else {
			w++
		}
	}
	return w
}
