package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/junction/pkg/errors"
)

const sampleInput = `10
162,817,812
57,618,57
906,360,560
592,479,940
352,342,300
466,668,158
542,29,236
431,825,988
739,650,466
52,470,668
216,146,977
819,987,18
117,168,530
805,96,715
346,949,466
970,615,88
941,993,340
862,61,35
984,92,344
425,690,689
`

// isolate points the config and cache directories at temp dirs and silences
// status output.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	captureUI(t, io.Discard)
	return dir
}

// run executes the root command with stdin and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.Stdin = strings.NewReader(stdin)

	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBudgetCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, sampleInput, "budget")
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if out != "40\n" {
		t.Errorf("stdout = %q, want %q", out, "40\n")
	}
}

func TestBudgetCommandFlagOverridesHeader(t *testing.T) {
	isolate(t)

	// With no connections every circuit slot is missing, so the answer is 1.
	out, err := run(t, sampleInput, "budget", "--budget", "0")
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if out != "1\n" {
		t.Errorf("stdout = %q, want %q", out, "1\n")
	}
}

func TestBudgetCommandMissingBudget(t *testing.T) {
	isolate(t)

	body := sampleInput[strings.Index(sampleInput, "\n")+1:]
	_, err := run(t, body, "budget")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestUnifyCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, sampleInput, "unify")
	if err != nil {
		t.Fatalf("unify: %v", err)
	}
	if out != "25272\n" {
		t.Errorf("stdout = %q, want %q", out, "25272\n")
	}
}

func TestUnifyCommandFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(path, []byte(sampleInput), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "unify", path)
	if err != nil {
		t.Fatalf("unify: %v", err)
	}
	if out != "25272\n" {
		t.Errorf("stdout = %q", out)
	}

	_, err = run(t, "", "unify", filepath.Join(dir, "missing.txt"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestUnifyCommandJSON(t *testing.T) {
	isolate(t)

	out, err := run(t, sampleInput, "unify", "--json")
	if err != nil {
		t.Fatalf("unify: %v", err)
	}

	var rep struct {
		Policy string `json:"policy"`
		Answer int64  `json:"answer"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if rep.Policy != "unify" || rep.Answer != 25272 {
		t.Errorf("report = %+v", rep)
	}
	if !strings.Contains(out, `"117,168,530"`) || !strings.Contains(out, `"216,146,977"`) {
		t.Error("report should name the last pair")
	}
}

func TestSolveErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"parse error", "1,2\n", []string{"unify"}, errors.ErrCodeParse},
		{"single point", "1,2,3\n", []string{"unify"}, errors.ErrCodeExhaustedInput},
		{"coordinate out of range", "0,0,0\n1,0,0\n4000000000,0,0\n", []string{"unify"}, errors.ErrCodeParse},
		{"budget too large", "5\n0,0,0\n0,0,1\n", []string{"budget"}, errors.ErrCodeExhaustedInput},
		{"bad format", sampleInput, []string{"render", "--format", "pdf"}, errors.ErrCodeInvalidFormat},
		{"bad policy", sampleInput, []string{"render", "--policy", "greedy", "--format", "dot"}, errors.ErrCodeInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCacheFlagReusesResult(t *testing.T) {
	dir := isolate(t)

	for i := 0; i < 2; i++ {
		out, err := run(t, sampleInput, "--cache", "budget")
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if out != "40\n" {
			t.Fatalf("run %d stdout = %q", i, out)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cache", appName))
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected cache entries, got %v (%v)", entries, err)
	}

	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName) + "\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	isolate(t)

	out, err := run(t, sampleInput, "render", "--policy", "unify", "--format", "dot")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("stdout is not DOT: %q", out)
	}
	if !strings.Contains(out, "subgraph cluster_") {
		t.Error("DOT output should contain circuit clusters")
	}
}

func TestRenderCommandOutputFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "circuits.dot")

	out, err := run(t, sampleInput, "render", "--format", "dot", "-o", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty with -o, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("file is not DOT: %q", data)
	}
}

func TestInspectPlain(t *testing.T) {
	isolate(t)

	out, err := run(t, sampleInput, "inspect", "--plain", "--policy", "unify")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"unify run", "answer 25272", "117,168,530", "merged", "redundant"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q", want)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, appName) {
		t.Error("completion script should mention the command name")
	}
}
