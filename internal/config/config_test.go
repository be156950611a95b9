package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if !cfg.LaTeX.Listings {
		t.Error("LaTeX.Listings = false, want true")
	}
	if cfg.PDF.Template != "eisvogel" {
		t.Errorf("PDF.Template = %q, want eisvogel", cfg.PDF.Template)
	}
	if cfg.PDF.Engine != "xelatex" {
		t.Errorf("PDF.Engine = %q, want xelatex", cfg.PDF.Engine)
	}
	if cfg.PDF.Clean {
		t.Error("PDF.Clean = true, want false")
	}
	if cfg.Batch.Workers != 1 || cfg.Batch.ContinueOnError {
		t.Errorf("Batch = %+v, want one worker stopping on first error", cfg.Batch)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field bounds and enumerations
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		modify     func(*Config)
		wantErr    error
		wantSubstr string
	}{
		{
			name:   "all engines accepted",
			modify: func(c *Config) { c.PDF.Engine = "lualatex" },
		},
		{
			name:   "empty engine accepted",
			modify: func(c *Config) { c.PDF.Engine = "" },
		},
		{
			name:       "unknown engine",
			modify:     func(c *Config) { c.PDF.Engine = "wkhtmltopdf" },
			wantErr:    ErrInvalidValue,
			wantSubstr: "pdf.engine",
		},
		{
			name:       "engine too long",
			modify:     func(c *Config) { c.PDF.Engine = strings.Repeat("x", MaxEngineLength+1) },
			wantErr:    ErrFieldTooLong,
			wantSubstr: "pdf.engine",
		},
		{
			name:   "max size square",
			modify: func(c *Config) { c.Images.MaxSize = "800" },
		},
		{
			name:   "max size rectangle",
			modify: func(c *Config) { c.Images.MaxSize = "1200x800" },
		},
		{
			name:       "max size invalid",
			modify:     func(c *Config) { c.Images.MaxSize = "big" },
			wantErr:    ErrInvalidValue,
			wantSubstr: "images.maxSize",
		},
		{
			name:       "static dir too long",
			modify:     func(c *Config) { c.Images.StaticDir = strings.Repeat("a", MaxPathLength+1) },
			wantErr:    ErrFieldTooLong,
			wantSubstr: "images.staticDir",
		},
		{
			name:       "latex template too long",
			modify:     func(c *Config) { c.LaTeX.Template = strings.Repeat("t", MaxTemplateLength+1) },
			wantErr:    ErrFieldTooLong,
			wantSubstr: "latex.template",
		},
		{
			name:       "too many extra args",
			modify:     func(c *Config) { c.LaTeX.ExtraArgs = make([]string, MaxExtraArgs+1) },
			wantErr:    ErrInvalidValue,
			wantSubstr: "latex.extraArgs",
		},
		{
			name:       "extra arg too long",
			modify:     func(c *Config) { c.LaTeX.ExtraArgs = []string{"--toc", strings.Repeat("x", MaxArgLength+1)} },
			wantErr:    ErrFieldTooLong,
			wantSubstr: "latex.extraArgs[1]",
		},
		{
			name:   "timeout valid",
			modify: func(c *Config) { c.Pandoc.Timeout = "90s" },
		},
		{
			name:       "timeout unparsable",
			modify:     func(c *Config) { c.Pandoc.Timeout = "soon" },
			wantErr:    ErrInvalidValue,
			wantSubstr: "pandoc.timeout",
		},
		{
			name:       "timeout negative",
			modify:     func(c *Config) { c.Pandoc.Timeout = "-1s" },
			wantErr:    ErrInvalidValue,
			wantSubstr: "pandoc.timeout",
		},
		{
			name:   "workers zero means default",
			modify: func(c *Config) { c.Batch.Workers = 0 },
		},
		{
			name:       "workers negative",
			modify:     func(c *Config) { c.Batch.Workers = -1 },
			wantErr:    ErrInvalidValue,
			wantSubstr: "batch.workers",
		},
		{
			name:       "workers above limit",
			modify:     func(c *Config) { c.Batch.Workers = MaxWorkers + 1 },
			wantErr:    ErrInvalidValue,
			wantSubstr: "batch.workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error %q should mention %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestPandocConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	got, err := PandocConfig{}.TimeoutDuration()
	if err != nil || got != 0 {
		t.Errorf("empty timeout = (%v, %v), want (0, nil)", got, err)
	}

	got, err = PandocConfig{Timeout: "2m30s"}.TimeoutDuration()
	if err != nil || got != 150*time.Second {
		t.Errorf("TimeoutDuration() = (%v, %v), want (2m30s, nil)", got, err)
	}

	if _, err := (PandocConfig{Timeout: "48h"}).TimeoutDuration(); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("48h error = %v, want ErrInvalidValue", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading and name resolution
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("full config from path", func(t *testing.T) {
		path := writeConfig(t, `input:
  defaultDir: "./docs"
output:
  defaultDir: "./build"
images:
  convertBW: true
  maxSize: "1200x800"
  staticDir: "./static"
latex:
  standalone: true
  template: "./book.latex"
  listings: false
  extraArgs: ["--toc", "--number-sections"]
pdf:
  template: "letter"
  engine: "lualatex"
  clean: true
pandoc:
  path: "/opt/pandoc/bin/pandoc"
  timeout: "2m"
  templateDir: "./templates"
batch:
  workers: 4
  continueOnError: true
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Input.DefaultDir != "./docs" || cfg.Output.DefaultDir != "./build" {
			t.Errorf("dirs = %q, %q", cfg.Input.DefaultDir, cfg.Output.DefaultDir)
		}
		if !cfg.Images.ConvertBW || cfg.Images.MaxSize != "1200x800" || cfg.Images.StaticDir != "./static" {
			t.Errorf("Images = %+v", cfg.Images)
		}
		if !cfg.LaTeX.Standalone || cfg.LaTeX.Listings || cfg.LaTeX.Template != "./book.latex" {
			t.Errorf("LaTeX = %+v", cfg.LaTeX)
		}
		if len(cfg.LaTeX.ExtraArgs) != 2 || cfg.LaTeX.ExtraArgs[1] != "--number-sections" {
			t.Errorf("LaTeX.ExtraArgs = %q", cfg.LaTeX.ExtraArgs)
		}
		if cfg.PDF.Template != "letter" || cfg.PDF.Engine != "lualatex" || !cfg.PDF.Clean {
			t.Errorf("PDF = %+v", cfg.PDF)
		}
		if cfg.Pandoc.Path != "/opt/pandoc/bin/pandoc" || cfg.Pandoc.Timeout != "2m" || cfg.Pandoc.TemplateDir != "./templates" {
			t.Errorf("Pandoc = %+v", cfg.Pandoc)
		}
		if cfg.Batch.Workers != 4 || !cfg.Batch.ContinueOnError {
			t.Errorf("Batch = %+v", cfg.Batch)
		}
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		path := writeConfig(t, "output:\n  defaultDir: out\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.LaTeX.Listings {
			t.Error("LaTeX.Listings lost its default")
		}
		if cfg.PDF.Template != "eisvogel" || cfg.PDF.Engine != "xelatex" {
			t.Errorf("PDF defaults lost: %+v", cfg.PDF)
		}
		if cfg.Batch.Workers != 1 {
			t.Errorf("Batch.Workers = %d, want 1", cfg.Batch.Workers)
		}
	})

	t.Run("unknown key returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "css:\n  style: technical\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "pdf: [unclosed\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation failure surfaces", func(t *testing.T) {
		path := writeConfig(t, "pdf:\n  engine: word\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("config name resolves from current directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "work.yml"), []byte("pdf:\n  engine: yml\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "work.yaml"), []byte("pdf:\n  engine: pdflatex\n"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)

		cfg, err := LoadConfig("work")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.PDF.Engine != "pdflatex" {
			t.Errorf("PDF.Engine = %q, want pdflatex (should prefer .yaml)", cfg.PDF.Engine)
		}
	})

	t.Run("config name not found returns ErrConfigNotFound", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
		if err != nil && !strings.Contains(err.Error(), "nonexistent.yaml") {
			t.Errorf("error %q should list tried paths", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %q, want at least the local candidates", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local candidates = %q, want work.yaml then work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), "/go-md2latex/") {
			t.Errorf("user candidate %q should live under go-md2latex/", p)
		}
	}
}

func TestConfig_ExpandHome(t *testing.T) {
	t.Parallel()

	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Output.DefaultDir = "~/build"
	cfg.Pandoc.TemplateDir = "~"
	cfg.Images.StaticDir = "./static"

	if err := cfg.ExpandHome(); err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if cfg.Output.DefaultDir != filepath.Join(home, "build") {
		t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, filepath.Join(home, "build"))
	}
	if cfg.Pandoc.TemplateDir != home {
		t.Errorf("Pandoc.TemplateDir = %q, want %q", cfg.Pandoc.TemplateDir, home)
	}
	if cfg.Images.StaticDir != "./static" {
		t.Errorf("relative path changed: %q", cfg.Images.StaticDir)
	}

	cfg.Input.DefaultDir = "~other/docs"
	if err := cfg.ExpandHome(); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ExpandHome() error = %v, want ErrInvalidValue for ~user paths", err)
	}
}
