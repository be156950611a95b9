package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/alnah/go-md2latex/internal/fileutil"
	"github.com/alnah/go-md2latex/internal/images"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxTemplateLength = 4096 // name or path
	MaxEngineLength   = 20   // "xelatex", "tectonic"
	MaxSizeLength     = 20   // "1200x800"
	MaxArgLength      = 1024 // single pandoc argument
	MaxExtraArgs      = 64
	MaxWorkers        = 32
	MaxTimeout        = 24 * time.Hour
)

// appName is the directory under the user config dir searched for named configs.
const appName = "go-md2latex"

// SupportedEngines lists the --pdf-engine values accepted for LaTeX output.
var SupportedEngines = []string{"xelatex", "pdflatex", "lualatex", "tectonic", "latexmk"}

// Config holds all configuration for document conversion.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Images ImagesConfig `yaml:"images"`
	LaTeX  LaTeXConfig  `yaml:"latex"`
	PDF    PDFConfig    `yaml:"pdf"`
	Pandoc PandocConfig `yaml:"pandoc"`
	Batch  BatchConfig  `yaml:"batch"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when no input is given (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = current directory
}

// ImagesConfig defines image pre-processing options.
type ImagesConfig struct {
	Disabled  bool   `yaml:"disabled"`  // Skip the pre-processor entirely
	ConvertBW bool   `yaml:"convertBW"` // Grayscale raster images
	MaxSize   string `yaml:"maxSize"`   // "800" or "1200x800" (empty = unbounded)
	StaticDir string `yaml:"staticDir"` // Resolves /img/... references
}

// LaTeXConfig defines options for LaTeX output.
type LaTeXConfig struct {
	Standalone bool     `yaml:"standalone"`
	Template   string   `yaml:"template"`
	Listings   bool     `yaml:"listings"`
	ExtraArgs  []string `yaml:"extraArgs"`
}

// PDFConfig defines options for PDF output.
type PDFConfig struct {
	Template string `yaml:"template"` // Name or path (default: "eisvogel")
	Engine   string `yaml:"engine"`   // default: "xelatex"
	Clean    bool   `yaml:"clean"`    // Run the Markdown cleaner before pandoc
}

// PandocConfig defines how pandoc is invoked.
type PandocConfig struct {
	Path        string `yaml:"path"`        // Empty = "pandoc" from PATH
	Timeout     string `yaml:"timeout"`     // Go duration per file, e.g. "2m" (empty = none)
	TemplateDir string `yaml:"templateDir"` // Searched for <name>.latex before pandoc's data dir
}

// BatchConfig defines directory conversion options.
type BatchConfig struct {
	Workers         int  `yaml:"workers"`         // 0 = default (1)
	ContinueOnError bool `yaml:"continueOnError"` // false = stop at the first failure
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		LaTeX: LaTeXConfig{Listings: true},
		PDF: PDFConfig{
			Template: "eisvogel",
			Engine:   "xelatex",
		},
		Batch: BatchConfig{Workers: 1},
	}
}

// Validate checks lengths, bounds and enumerations.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	paths := []struct {
		name  string
		value string
	}{
		{"input.defaultDir", c.Input.DefaultDir},
		{"output.defaultDir", c.Output.DefaultDir},
		{"images.staticDir", c.Images.StaticDir},
		{"pandoc.path", c.Pandoc.Path},
		{"pandoc.templateDir", c.Pandoc.TemplateDir},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	// Images
	if err := validateFieldLength("images.maxSize", c.Images.MaxSize, MaxSizeLength); err != nil {
		return err
	}
	if _, err := images.ParseBounds(c.Images.MaxSize); err != nil {
		return fmt.Errorf("%w: images.maxSize: %w", ErrInvalidValue, err)
	}

	// LaTeX
	if err := validateFieldLength("latex.template", c.LaTeX.Template, MaxTemplateLength); err != nil {
		return err
	}
	if len(c.LaTeX.ExtraArgs) > MaxExtraArgs {
		return fmt.Errorf("%w: latex.extraArgs: %d entries, max %d", ErrInvalidValue, len(c.LaTeX.ExtraArgs), MaxExtraArgs)
	}
	for i, arg := range c.LaTeX.ExtraArgs {
		if err := validateFieldLength(fmt.Sprintf("latex.extraArgs[%d]", i), arg, MaxArgLength); err != nil {
			return err
		}
	}

	// PDF
	if err := validateFieldLength("pdf.template", c.PDF.Template, MaxTemplateLength); err != nil {
		return err
	}
	if err := validateFieldLength("pdf.engine", c.PDF.Engine, MaxEngineLength); err != nil {
		return err
	}
	if c.PDF.Engine != "" && !isSupportedEngine(c.PDF.Engine) {
		return fmt.Errorf("%w: pdf.engine %q (must be one of %s)",
			ErrInvalidValue, c.PDF.Engine, strings.Join(SupportedEngines, ", "))
	}

	// Pandoc
	if _, err := c.Pandoc.TimeoutDuration(); err != nil {
		return err
	}

	// Batch
	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkers {
		return fmt.Errorf("%w: batch.workers must be between 0 and %d, got %d",
			ErrInvalidValue, MaxWorkers, c.Batch.Workers)
	}

	return nil
}

// ExpandHome replaces a leading "~" in every path field with the user's
// home directory.
func (c *Config) ExpandHome() error {
	fields := []*string{
		&c.Input.DefaultDir,
		&c.Output.DefaultDir,
		&c.Images.StaticDir,
		&c.Pandoc.Path,
		&c.Pandoc.TemplateDir,
	}
	for _, f := range fields {
		expanded, err := homedir.Expand(*f)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidValue, *f, err)
		}
		*f = expanded
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (p PandocConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pandoc.timeout %q: %v", ErrInvalidValue, p.Timeout, err)
	}
	if d < 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: pandoc.timeout must be between 0 and %s, got %s",
			ErrInvalidValue, MaxTimeout, d)
	}
	return d, nil
}

func isSupportedEngine(engine string) bool {
	for _, e := range SupportedEngines {
		if e == engine {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.ExpandHome(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// ./<name>.yaml, ./<name>.yml, then the same names under
// <user config dir>/go-md2latex/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
