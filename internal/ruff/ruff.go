package ruff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"logsift/internal/eslint"
	"logsift/internal/types"
)

// RuffIssue represents a single issue reported by `ruff check --output-format=json`.
type RuffIssue struct {
	Code     *string `json:"code"` // null for syntax errors
	Message  string  `json:"message"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
	Filename string    `json:"filename"`
	Fix      *struct{} `json:"fix"` // We don't care about the fix for now
}

func LoadReport(path string) ([]types.LintEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", eslint.ErrReportNotReadable, err)
	}
	return ParseReport(data)
}

// ParseReport groups ruff diagnostics into one entry per file, in order of
// first appearance. Ruff has no severities, so every diagnostic is an error.
func ParseReport(data []byte) ([]types.LintEntry, error) {
	var ruffIssues []RuffIssue
	if err := json.Unmarshal(data, &ruffIssues); err != nil {
		return nil, fmt.Errorf("%w: %w", eslint.ErrInvalidReport, err)
	}

	var entries []types.LintEntry
	index := make(map[string]int)
	for _, issue := range ruffIssues {
		path := filepath.ToSlash(issue.Filename)
		i, ok := index[path]
		if !ok {
			i = len(entries)
			index[path] = i
			entries = append(entries, types.LintEntry{FilePath: path})
		}

		line, column := issue.Location.Row, issue.Location.Column
		entries[i].ErrorCount++
		entries[i].Messages = append(entries[i].Messages, types.LintMessage{
			RuleID:   issue.Code,
			Severity: 2,
			Message:  issue.Message,
			Line:     &line,
			Column:   &column,
		})
	}

	return entries, nil
}
