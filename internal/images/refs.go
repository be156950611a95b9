package images

import (
	"net/url"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// findImageRefs returns the distinct image destinations of a Markdown
// document, in document order. Inline and reference-style images are found;
// raw HTML <img> tags are not.
func findImageRefs(source []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	seen := make(map[string]bool)
	var refs []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if dest != "" && !seen[dest] {
			seen[dest] = true
			refs = append(refs, dest)
		}
		return ast.WalkContinue, nil
	})
	return refs
}

// resolveRef maps a reference to an existing local file.
// Remote references and missing files are reported as not resolvable.
func resolveRef(ref, sourceDir, staticDir string) (string, bool) {
	if fileutil.IsRemote(ref) || strings.HasPrefix(ref, "file://") {
		return "", false
	}

	p := ref
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	p = filepath.FromSlash(p)

	var candidate string
	switch {
	case strings.HasPrefix(ref, "/") && staticDir != "":
		absStatic, err := filepath.Abs(staticDir)
		if err != nil {
			return "", false
		}
		candidate = filepath.Join(absStatic, p)
		if !fileutil.IsPathUnderDir(candidate, absStatic) {
			return "", false
		}
	case filepath.IsAbs(p):
		candidate = p
	default:
		candidate = filepath.Join(sourceDir, p)
	}

	if !fileutil.FileExists(candidate) {
		return "", false
	}
	return candidate, true
}

// markdownPath formats an absolute path for a Markdown link destination.
func markdownPath(abs string) string {
	p := filepath.ToSlash(abs)
	if strings.ContainsAny(p, " ()") {
		return "<" + p + ">"
	}
	return p
}

// rewriteRefs substitutes destinations in inline ![alt](dest), angle-bracket
// ![alt](<dest>) and reference definitions [id]: dest. A destination is only
// replaced when it is followed by ")", whitespace, a title quote or the end of
// the line, so a.png never rewrites a.png.bak.
func rewriteRefs(content string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return content
	}

	// Longer references first in the alternation.
	refs := make([]string, 0, len(replacements))
	for ref := range replacements {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return len(refs[i]) > len(refs[j]) })
	for i, ref := range refs {
		refs[i] = regexp.QuoteMeta(ref)
	}

	re := regexp.MustCompile(`(?m)(\]\([ \t]*|\]:[ \t]*)(<?)(` + strings.Join(refs, "|") + `)(>?)([)\s"']|$)`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		m := re.FindStringSubmatch(match)
		prefix, open, ref, closing, term := m[1], m[2], m[3], m[4], m[5]
		if (open == "<") != (closing == ">") {
			return match
		}
		target := replacements[ref]
		if open == "<" {
			target = "<" + strings.Trim(target, "<>") + ">"
		}
		return prefix + target + term
	})
}
