package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/hints"
	"github.com/alnah/go-md2latex/internal/pandoc"
	"github.com/alnah/go-md2latex/internal/templates"
)

// Overridable in tests.
var (
	lookPath          = exec.LookPath
	installedTemplate = templates.Installed
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Pandoc   pandocInfo   `json:"pandoc"`
	Engine   engineInfo   `json:"engine"`
	Template templateInfo `json:"template"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// pandocInfo holds pandoc detection results.
type pandocInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// engineInfo holds LaTeX engine detection results.
type engineInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// templateInfo holds PDF template detection results.
type templateInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Container bool   `json:"container"`
	CI        bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	json     bool
	engine   string
	template string
	pandoc   string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	f := &doctorFlags{}
	fs.BoolVar(&f.json, "json", false, "machine-readable output")
	fs.StringVar(&f.engine, "engine", md2latex.DefaultPDFEngine, "LaTeX engine to check")
	fs.StringVar(&f.template, "template", md2latex.DefaultPDFTemplate, "PDF template to check")
	fs.StringVar(&f.pandoc, "pandoc", "", "pandoc executable")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	result := runDoctor(ctx, f, env)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, f *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkPandoc(ctx, result, f.pandoc, env)
	checkEngine(result, f.engine)
	checkTemplate(result, f.template)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkPandoc locates pandoc and asks it for its version.
func checkPandoc(ctx context.Context, result *doctorResult, binary string, env *Environment) {
	if binary == "" {
		binary = pandoc.DefaultBinary
	}

	path, err := lookPath(binary)
	if err != nil {
		result.Errors = append(result.Errors,
			"pandoc not found"+hints.ForPandocMissing())
		return
	}
	result.Pandoc.Found = true
	result.Pandoc.Path = path

	c, err := env.NewConverter(md2latex.WithPandocPath(path), md2latex.WithNoticeWriter(io.Discard))
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get pandoc version: %v", err))
		return
	}
	version, err := c.PandocVersion(ctx)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get pandoc version: %v", err))
		return
	}
	result.Pandoc.Version = version
}

// checkEngine locates the LaTeX engine used for PDF output.
func checkEngine(result *doctorResult, engine string) {
	result.Engine.Name = engine

	path, err := lookPath(engine)
	if err != nil {
		// LaTeX output still works without an engine.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s not found, PDF output unavailable%s", engine, hints.ForPDFEngine(engine)))
		return
	}
	result.Engine.Found = true
	result.Engine.Path = path
}

// checkTemplate looks for the PDF template in pandoc's data directories.
func checkTemplate(result *doctorResult, name string) {
	result.Template.Name = name
	if name == "" {
		return
	}

	path, found := installedTemplate(name)
	if !found {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("template %q not installed%s", name, hints.ForTemplateNotFound(name, templates.PandocDataDirs())))
		return
	}
	result.Template.Found = true
	result.Template.Path = path
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container = hints.IsInContainer() || os.Getenv("container") != ""

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "md2latex-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2latex doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pandoc")
	if r.Pandoc.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Pandoc.Path)
		if r.Pandoc.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Pandoc.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF")
	if r.Engine.Found {
		fmt.Fprintf(w, "  [OK] Engine %s at %s\n", r.Engine.Name, r.Engine.Path)
	} else {
		fmt.Fprintf(w, "  [WARN] Engine %s not found\n", r.Engine.Name)
	}
	if r.Template.Name != "" {
		if r.Template.Found {
			fmt.Fprintf(w, "  [OK] Template %s at %s\n", r.Template.Name, r.Template.Path)
		} else {
			fmt.Fprintf(w, "  [WARN] Template %s not installed\n", r.Template.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
