package md2latex

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// frontMatterDelimiter opens and closes the YAML block.
const frontMatterDelimiter = "---"

// ExtractFrontMatter reads the file at path and returns its front matter.
// See ParseFrontMatter for the accepted format.
func ExtractFrontMatter(path string) (map[string]any, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided document
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrReadMarkdown, path)
	}

	return ParseFrontMatter(string(data))
}

// ParseFrontMatter returns the YAML block delimited by the first two "---"
// of content as a map.
//
// Examples:
//   - "# Title" -> empty map
//   - "---\ntitle: Intro\n---\nBody" -> {"title": "Intro"}
//   - "---\n---\nBody" -> empty map
//   - "---\ntitle: Intro\n" -> ErrMalformedFrontMatter (no closing delimiter)
//   - "---\n- a\n- b\n---\n" -> ErrMalformedFrontMatter (not a mapping)
//
// The returned map is never nil when err is nil.
func ParseFrontMatter(content string) (map[string]any, error) {
	if !strings.HasPrefix(content, frontMatterDelimiter) {
		return map[string]any{}, nil
	}

	parts := strings.SplitN(content, frontMatterDelimiter, 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: missing closing %q", ErrMalformedFrontMatter, frontMatterDelimiter)
	}

	meta, err := yamlutil.DecodeMapping([]byte(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	return meta, nil
}
