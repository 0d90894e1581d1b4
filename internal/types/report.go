package types

// SummaryEntry is one row of the console summary.
type SummaryEntry struct {
	Rank         int
	Path         string
	Name         string // base name, directory stripped
	ErrorCount   int
	WarningCount int
	TopErrors    []SummaryMessage
}

type SummaryMessage struct {
	Line    *int
	RuleID  string
	Message string // truncated for display
}

// FlatEntry is one file block of the flattened text report.
type FlatEntry struct {
	FilePath     string
	ErrorCount   int
	WarningCount int
	Messages     []NormalizedMessage
}
