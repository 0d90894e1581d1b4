package eslint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"logsift/internal/types"
)

var (
	ErrReportNotReadable = errors.New("lint report not readable")
	ErrInvalidReport     = errors.New("lint report is not valid JSON")
)

// LoadReport reads an ESLint `--format json` report from disk.
func LoadReport(path string) ([]types.LintEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportNotReadable, err)
	}
	return ParseReport(data)
}

// ParseReport decodes an ESLint report. Missing optional message fields are
// left nil rather than rejected.
func ParseReport(data []byte) ([]types.LintEntry, error) {
	var results []types.LintEntry
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}
	return results, nil
}
