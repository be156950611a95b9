package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader finds templates in a directory on the filesystem.
type Loader struct {
	basePath string
}

// NewLoader creates a Loader for the given directory.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewLoader(basePath string) (*Loader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Containment checks compare resolved paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &Loader{basePath: absPath}, nil
}

// BasePath returns the resolved directory.
func (l *Loader) BasePath() string {
	return l.basePath
}

// Lookup returns the path of {basePath}/{name}.latex.
func (l *Loader) Lookup(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(l.basePath, fileName(name))
	if err := l.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q in %s", ErrTemplateNotFound, name, l.basePath)
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %q is a directory", ErrTemplateNotFound, name)
	}

	return filePath, nil
}

// verifyPathContainment ensures the resolved file path is within basePath,
// following symlinks so a link cannot point outside it.
func (l *Loader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; the stat that follows reports it.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, l.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes template directory", ErrPathTraversal)
	}
	return nil
}
