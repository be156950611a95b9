// Package images rewrites the image references of a Markdown file before it
// is handed to pandoc.
//
// References are found with goldmark. Local images are resolved to absolute
// paths, because pandoc runs on a scratch copy of the document that lives in a
// different directory. When grayscale conversion or a size bound is requested,
// PNG, JPEG and GIF images are re-encoded into the output directory and the
// reference points at the new file.
//
// The rewritten Markdown is written to <outputDir>/<DirName>/<stem>.md so that
// output artifacts keep the stem of the source file.
package images

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-md2latex/internal/fileutil"
)

// DefaultDirName is the output subdirectory receiving rewritten files.
const DefaultDirName = "processed"

// imagesDirName is the subdirectory of DirName receiving re-encoded images.
const imagesDirName = "images"

// Sentinel errors for image processing.
var (
	ErrEmptySource     = errors.New("source path cannot be empty")
	ErrReadSource      = errors.New("failed to read markdown file")
	ErrWriteProcessed  = errors.New("failed to write processed markdown")
	ErrInvalidBounds   = errors.New("invalid image size bound")
	ErrImageTransform  = errors.New("failed to transform image")
	ErrOverwriteSource = errors.New("processed file would overwrite source")
)

// Bounds caps image dimensions in pixels. A zero field leaves that axis free.
type Bounds struct {
	Width  int
	Height int
}

// IsZero reports whether no bound is set.
func (b Bounds) IsZero() bool {
	return b.Width == 0 && b.Height == 0
}

func (b Bounds) String() string {
	if b.IsZero() {
		return ""
	}
	return strconv.Itoa(b.Width) + "x" + strconv.Itoa(b.Height)
}

// ParseBounds parses a max-size value.
//
// Examples:
//   - "" -> no bound
//   - "800" -> 800x800
//   - "1200x800" -> width 1200, height 800
func ParseBounds(s string) (Bounds, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Bounds{}, nil
	}

	w, h, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		h = w
	}

	width, err := parseDimension(w)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidBounds, s)
	}
	height, err := parseDimension(h)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidBounds, s)
	}
	return Bounds{Width: width, Height: height}, nil
}

func parseDimension(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("dimension must be positive, got %d", n)
	}
	return n, nil
}

// Job describes one Markdown file to process.
type Job struct {
	SourcePath string
	OutputDir  string // empty = current directory
	ConvertBW  bool
	MaxSize    Bounds
	StaticDir  string // resolves site-absolute references such as /img/logo.png
}

func (j Job) transforms() bool {
	return j.ConvertBW || !j.MaxSize.IsZero()
}

// Processor is the default image pre-processor.
type Processor struct {
	DirName string
}

// NewProcessor creates a Processor writing into DefaultDirName.
func NewProcessor() *Processor {
	return &Processor{DirName: DefaultDirName}
}

// Process rewrites the image references of job.SourcePath and returns the path
// of the rewritten Markdown file.
func (p *Processor) Process(ctx context.Context, job Job) (string, error) {
	if job.SourcePath == "" {
		return "", ErrEmptySource
	}

	content, err := os.ReadFile(job.SourcePath) // #nosec G304 -- user-provided document
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	sourceDir, err := filepath.Abs(filepath.Dir(job.SourcePath))
	if err != nil {
		return "", fmt.Errorf("resolving source directory: %w", err)
	}

	outputDir := job.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	dirName := p.DirName
	if dirName == "" {
		dirName = DefaultDirName
	}
	workDir := filepath.Join(outputDir, dirName)
	if err := os.MkdirAll(workDir, fileutil.DirPermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteProcessed, err)
	}

	replacements := make(map[string]string)
	for i, ref := range findImageRefs(content) {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		local, ok := resolveRef(ref, sourceDir, job.StaticDir)
		if !ok {
			continue
		}

		target := local
		if job.transforms() && isRaster(local) {
			target, err = transformImage(local, filepath.Join(workDir, imagesDirName), job, i)
			if err != nil {
				return "", err
			}
		}

		abs, err := filepath.Abs(target)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", target, err)
		}
		replacements[ref] = markdownPath(abs)
	}

	outPath := filepath.Join(workDir, fileutil.Stem(job.SourcePath)+".md")
	if sameFile(outPath, job.SourcePath) {
		return "", fmt.Errorf("%w: %s", ErrOverwriteSource, outPath)
	}

	rewritten := rewriteRefs(string(content), replacements)
	// #nosec G306 -- Markdown is meant to be readable
	if err := os.WriteFile(outPath, []byte(rewritten), fileutil.FilePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteProcessed, err)
	}

	return outPath, nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
