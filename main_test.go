package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestShowVersion(t *testing.T) {
	var buf bytes.Buffer
	showVersion(&buf)
	assert.Contains(t, buf.String(), VERSION)
	assert.Contains(t, buf.String(), PROJECT_NAME)
}

func TestCleanThenSummarize(t *testing.T) {
	inTempDir(t)
	raw := `garbage before [{"filePath":"a.ts","errorCount":2,"warningCount":0,"messages":[{"line":1,"column":1,"severity":2,"ruleId":"no-any","message":"bad"}]}] garbage after`
	require.NoError(t, os.WriteFile("lint_results.json", []byte(raw), 0644))

	code, _, stderr := runCLI(t, "clean-json")
	require.Equal(t, 0, code, stderr)

	cleaned, err := os.ReadFile("lint_results_clean.json")
	require.NoError(t, err)
	assert.Equal(t, `[{"filePath":"a.ts","errorCount":2,"warningCount":0,"messages":[{"line":1,"column":1,"severity":2,"ruleId":"no-any","message":"bad"}]}]`, string(cleaned))

	code, stdout, stderr := runCLI(t, "summary", "--in", "lint_results_clean.json")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "a.ts: 2 errors, 0 warnings\n  - L1: no-any - bad\n")
}

func TestCleanJSONNoArray(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("lint_results.json", []byte("nothing to see"), 0644))

	code, _, stderr := runCLI(t, "clean-json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "could not find start of JSON array")

	_, err := os.Stat("lint_results_clean.json")
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryInvalidJSON(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("lint_results.json", []byte("garbage [1,"), 0644))

	code, stdout, stderr := runCLI(t, "summary")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "lint report is not valid JSON")
	assert.Empty(t, stdout)

	code, _, stderr = runCLI(t, "summary", "--in", "missing.json")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "lint report not readable")
}

func TestSummaryRejectsNonPositiveTop(t *testing.T) {
	inTempDir(t)
	report := `[{"filePath":"a.ts","errorCount":1,"warningCount":0,"messages":[]}]`
	require.NoError(t, os.WriteFile("lint_results.json", []byte(report), 0644))

	for _, top := range []string{"0", "-3"} {
		code, stdout, stderr := runCLI(t, "summary", "--top="+top)
		assert.Equal(t, 1, code, top)
		assert.Contains(t, stderr, "--top must be positive", top)
		assert.Empty(t, stdout, top)
	}

	code, stdout, _ := runCLI(t, "summary", "--top", "1")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "a.ts: 1 errors, 0 warnings")
}

func TestSummaryRuleSuggestion(t *testing.T) {
	inTempDir(t)
	report := `[{"filePath":"a.ts","errorCount":1,"warningCount":0,"messages":[{"line":3,"severity":2,"ruleId":"no-console","message":"x"}]}]`
	require.NoError(t, os.WriteFile("lint_results.json", []byte(report), 0644))

	code, stdout, _ := runCLI(t, "summary", "--rule", "no-consle")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No errors for rule no-consle")
	assert.Contains(t, stdout, "Did you mean: no-console")
}

func TestSummaryLogHistory(t *testing.T) {
	dir := inTempDir(t)
	report := `[{"filePath":"a.ts","errorCount":1,"warningCount":0,"messages":[]}]`
	require.NoError(t, os.WriteFile("lint_results.json", []byte(report), 0644))

	code, _, stderr := runCLI(t, "summary", "--log-history", "--log-dir", "hist")
	require.Equal(t, 0, code, stderr)

	files, err := filepath.Glob(filepath.Join(dir, "hist", "lint_summary_*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestReport(t *testing.T) {
	inTempDir(t)
	report := `[
	  {"filePath":"src/clean.ts","errorCount":0,"warningCount":0,"messages":[]},
	  {"filePath":"src/warn.ts","errorCount":0,"warningCount":1,"messages":[{"line":2,"column":3,"severity":1,"message":"no rule here"}]}
	]`
	require.NoError(t, os.WriteFile("lint_results.json", []byte(report), 0644))

	code, _, stderr := runCLI(t, "--quiet", "report")
	require.Equal(t, 0, code, stderr)

	content, err := os.ReadFile("lint_report.txt")
	require.NoError(t, err)
	assert.Equal(t, "File: src/warn.ts\nErrors: 0, Warnings: 1\n  [WARNING] 2:3 (none) - no rule here\n", string(content))
}

func TestErrors(t *testing.T) {
	inTempDir(t)
	log := "building\nsrc/a.ts(1,1): error TS2304: Cannot find name\nTS6133 unused\nERROR done\nok\n"
	require.NoError(t, os.WriteFile("build.log", []byte(log), 0644))

	code, stdout, _ := runCLI(t, "errors")
	require.Equal(t, 0, code)
	assert.Equal(t, "src/a.ts(1,1): error TS2304: Cannot find name\nTS6133 unused\nERROR done\n", stdout)

	code, stdout, _ = runCLI(t, "errors", "--robust")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "Found 2 lines containing \"error\"\n"))
	assert.NotContains(t, stdout, "TS6133")
}

func TestBalance(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("ok.tsx", []byte("function A() { return (<div>{[1]}</div>) }"), 0644))
	require.NoError(t, os.WriteFile("bad.tsx", []byte("const x = (a)) + [b"), 0644))

	code, stdout, _ := runCLI(t, "balance", "ok.tsx")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "parentheses seem balanced")
	assert.Contains(t, stdout, "square brackets seem balanced")
	assert.Contains(t, stdout, "curly braces seem balanced")
	assert.Contains(t, stdout, "Tag count (heuristic): <div: 1, </div>: 1, match")

	code, stdout, _ = runCLI(t, "balance", "bad.tsx")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "unexpected closing parentheses at character 13")
	assert.Contains(t, stdout, "unbalanced square brackets: 1")
}

func TestBalanceUsage(t *testing.T) {
	inTempDir(t)

	code, stdout, _ := runCLI(t, "balance")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "balance FILE")
}

func TestConfigGenerateAndLoad(t *testing.T) {
	inTempDir(t)

	code, stdout, _ := runCLI(t, "config", "--generate")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, ".logsift.yaml")

	code, stdout, stderr := runCLI(t, "config")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Lint report: lint_results.json")

	code, _, stderr = runCLI(t, "--config", "missing.yaml", "config")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "config file not found")
}
