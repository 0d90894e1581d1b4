// Package history keeps timestamped CSV snapshots of lint summaries so error
// counts can be compared between runs.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"logsift/internal/types"
)

// WriteCSV writes header and rows to dir/filename, creating dir if needed.
func WriteCSV(dir, filename string, header []string, data [][]string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("log directory not specified")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file %s: %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV file %s: %w", filePath, err)
	}

	return filePath, nil
}

// WriteSummaryCSV stores the summary as lint_summary_<timestamp>.csv.
func WriteSummaryCSV(dir string, entries []types.SummaryEntry, now time.Time) (string, error) {
	filename := fmt.Sprintf("lint_summary_%s.csv", now.Format("20060102_150405"))
	header := []string{"Rank", "Path", "Errors", "Warnings", "TopRule"}
	data := make([][]string, len(entries))
	for i, entry := range entries {
		topRule := ""
		if len(entry.TopErrors) > 0 {
			topRule = entry.TopErrors[0].RuleID
		}
		data[i] = []string{
			strconv.Itoa(entry.Rank),
			entry.Path,
			strconv.Itoa(entry.ErrorCount),
			strconv.Itoa(entry.WarningCount),
			topRule,
		}
	}
	return WriteCSV(dir, filename, header, data)
}
