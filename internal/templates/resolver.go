package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// Resolver turns a template reference into the value given to pandoc.
type Resolver struct {
	local *Loader // nil when no template directory is configured
}

// NewResolver creates a Resolver. An empty dir disables local lookups.
// Returns an error if dir is set but invalid.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{}
	if dir == "" {
		return r, nil
	}

	loader, err := NewLoader(dir)
	if err != nil {
		return nil, err
	}
	r.local = loader
	return r, nil
}

// HasLocalDir returns true if a template directory is configured.
func (r *Resolver) HasLocalDir() bool {
	return r.local != nil
}

// Resolve maps ref to a pandoc --template value.
//
// Examples:
//   - "" -> "" (pandoc default template)
//   - "./book.latex" -> "/abs/path/book.latex", or ErrTemplateNotFound
//   - "eisvogel" with {dir}/eisvogel.latex present -> "{dir}/eisvogel.latex"
//   - "eisvogel" otherwise -> "eisvogel"
func (r *Resolver) Resolve(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	if fileutil.IsFilePath(ref) {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		}
		if !fileutil.FileExists(abs) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, ref)
		}
		return abs, nil
	}

	if err := ValidateName(ref); err != nil {
		return "", err
	}

	if r.local != nil {
		path, err := r.local.Lookup(ref)
		if err == nil {
			return path, nil
		}
		// Only fall back on "not found", not on validation or I/O errors.
		if !errors.Is(err, ErrTemplateNotFound) {
			return "", err
		}
	}

	return ref, nil
}

// Installed reports whether pandoc can find the named template in one of its
// user data directories, and where.
func Installed(name string) (string, bool) {
	if ValidateName(name) != nil {
		return "", false
	}
	for _, dir := range PandocDataDirs() {
		path := filepath.Join(dir, "templates", fileName(name))
		if fileutil.FileExists(path) {
			return path, true
		}
	}
	return "", false
}

// PandocDataDirs lists the user data directories pandoc searches, in order:
// $XDG_DATA_HOME/pandoc (or ~/.local/share/pandoc), then ~/.pandoc.
// On Windows pandoc uses %APPDATA%\pandoc.
func PandocDataDirs() []string {
	var dirs []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "pandoc"))
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "pandoc"))
	}
	if home, err := homedir.Dir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "pandoc"),
			filepath.Join(home, ".pandoc"),
		)
	}
	return dirs
}
