package md2latex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakePandoc records invocations and writes Output to the --output file,
// standing in for the pandoc binary.
type fakePandoc struct {
	Output   string
	Stderr   string
	Err      error
	FailStem string // fail when the output file has this stem
	Block    bool   // wait for ctx cancellation

	mu      sync.Mutex
	calls   [][]string
	sources map[string]string // output path -> source content seen during the call
}

func (f *fakePandoc) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	call := append([]string{name}, args...)

	var source, output string
	if len(args) > 0 {
		source = args[0]
	}
	for _, a := range args {
		if v, ok := strings.CutPrefix(a, "--output="); ok {
			output = v
		}
	}

	content, _ := os.ReadFile(source)

	f.mu.Lock()
	f.calls = append(f.calls, call)
	if f.sources == nil {
		f.sources = make(map[string]string)
	}
	f.sources[output] = string(content)
	f.mu.Unlock()

	if f.Block {
		<-ctx.Done()
		return "", "", ctx.Err()
	}
	if f.Err != nil {
		return "", f.Stderr, f.Err
	}
	if f.FailStem != "" && strings.TrimSuffix(filepath.Base(output), filepath.Ext(output)) == f.FailStem {
		return "", "Error producing PDF.", errors.New("exit status 43")
	}
	if output != "" {
		if err := os.WriteFile(output, []byte(f.Output), 0o644); err != nil {
			return "", err.Error(), err
		}
	}
	return "", "", nil
}

func (f *fakePandoc) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

func (f *fakePandoc) SourceFor(output string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sources[output]
}

// recordingProcessor captures image jobs.
type recordingProcessor struct {
	err error

	mu   sync.Mutex
	jobs []ImageJob
}

func (r *recordingProcessor) ProcessImages(_ context.Context, job ImageJob) (string, error) {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	return job.SourcePath, nil
}

// syncBuffer is a goroutine-safe notice sink.
type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("scratch directory not empty: %v", names)
	}
}

// newTestConverter wires a fake pandoc, a pass-through image processor,
// a private scratch directory and a notice buffer.
func newTestConverter(t *testing.T, fake *fakePandoc, opts ...Option) (*Converter, string, *syncBuffer) {
	t.Helper()
	tmp := t.TempDir()
	notices := &syncBuffer{}
	base := []Option{
		WithCommandRunner(fake),
		WithImageProcessor(NopImageProcessor{}),
		WithTempDir(tmp),
		WithNoticeWriter(notices),
	}
	conv, err := NewConverter(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv, tmp, notices
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
