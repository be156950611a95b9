package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("$body$\n"), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	return path
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"eisvogel", false},
		{"eisvogel.latex", false},
		{"my-book_v2", false},
		{"", true},
		{"../evil", true},
		{"a/b", true},
		{`a\b`, true},
		{"book.tex", true},
		{".latex.latex", true},
		{"nul\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateName(tt.name)
			if tt.wantErr && !errors.Is(err, ErrInvalidTemplateName) {
				t.Errorf("ValidateName(%q) = %v, want ErrInvalidTemplateName", tt.name, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateName(%q) = %v, want nil", tt.name, err)
			}
		})
	}
}

func TestNewLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewLoader() error = %v", err)
		}
		if loader.BasePath() == "" {
			t.Error("BasePath() is empty")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewLoader(\"\") error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("nonexistent directory returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewLoader(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		file := writeTemplate(t, t.TempDir(), "book.latex")
		_, err := NewLoader(file)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewLoader() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestLoader_Lookup(t *testing.T) {
	t.Parallel()

	t.Run("finds template with or without extension", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTemplate(t, dir, "book.latex")

		loader, err := NewLoader(dir)
		if err != nil {
			t.Fatalf("NewLoader() error = %v", err)
		}
		want := filepath.Join(loader.BasePath(), "book.latex")

		for _, name := range []string{"book", "book.latex"} {
			got, err := loader.Lookup(name)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", name, err)
			}
			if got != want {
				t.Errorf("Lookup(%q) = %q, want %q", name, got, want)
			}
		}
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		loader, err := NewLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewLoader() error = %v", err)
		}
		if _, err := loader.Lookup("eisvogel"); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("Lookup() error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("symlink escaping base directory", func(t *testing.T) {
		t.Parallel()

		outside := writeTemplate(t, t.TempDir(), "secret.latex")
		dir := t.TempDir()
		if err := os.Symlink(outside, filepath.Join(dir, "escape.latex")); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}

		loader, err := NewLoader(dir)
		if err != nil {
			t.Fatalf("NewLoader() error = %v", err)
		}
		if _, err := loader.Lookup("escape"); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("Lookup() error = %v, want ErrPathTraversal", err)
		}
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	local := writeTemplate(t, dir, "eisvogel.latex")
	explicit := writeTemplate(t, t.TempDir(), "custom.latex")

	withDir, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	withoutDir, err := NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver(\"\") error = %v", err)
	}
	localResolved, _ := filepath.EvalSymlinks(local)

	tests := []struct {
		name     string
		resolver *Resolver
		ref      string
		want     string
		wantErr  error
	}{
		{name: "empty means pandoc default", resolver: withoutDir, ref: "", want: ""},
		{name: "existing path made absolute", resolver: withoutDir, ref: explicit, want: explicit},
		{name: "missing path", resolver: withoutDir, ref: "./nope/missing.latex", wantErr: ErrTemplateNotFound},
		{name: "name found in template dir", resolver: withDir, ref: "eisvogel", want: localResolved},
		{name: "name missing from template dir passes through", resolver: withDir, ref: "letter", want: "letter"},
		{name: "name without template dir passes through", resolver: withoutDir, ref: "eisvogel", want: "eisvogel"},
		{name: "invalid name", resolver: withoutDir, ref: "bad.name", wantErr: ErrInvalidTemplateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.resolver.Resolve(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	r, err := NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver(\"\") error = %v", err)
	}
	if r.HasLocalDir() {
		t.Error("expected no template directory for empty path")
	}

	if _, err := NewResolver(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewResolver() error = %v, want ErrInvalidBasePath", err)
	}
}

// Not parallel: modifies environment variables.
func TestInstalled(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("APPDATA", "")

	if _, ok := Installed("md2latex-test-template"); ok {
		t.Fatal("Installed() = true before the template exists")
	}

	templatesDir := filepath.Join(data, "pandoc", "templates")
	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		t.Fatal(err)
	}
	want := writeTemplate(t, templatesDir, "md2latex-test-template.latex")

	got, ok := Installed("md2latex-test-template")
	if !ok || got != want {
		t.Errorf("Installed() = (%q, %v), want (%q, true)", got, ok, want)
	}

	if _, ok := Installed("../escape"); ok {
		t.Error("Installed() accepted an invalid name")
	}
}
