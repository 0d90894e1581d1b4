package types

// Severity classifies a lint message. ESLint encodes it as an integer where
// 2 means error and anything else is reported as a warning.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// SeverityFromCode maps the numeric severity used in ESLint reports.
func SeverityFromCode(code int) Severity {
	if code == 2 {
		return SeverityError
	}
	return SeverityWarning
}

func (s Severity) String() string {
	if s == SeverityError {
		return "ERROR"
	}
	return "WARNING"
}

// LintMessage is a single diagnostic as found in the report. Optional fields
// are pointers so that missing and null values survive decoding.
type LintMessage struct {
	RuleID   *string `json:"ruleId"`
	Severity int     `json:"severity"`
	Message  string  `json:"message"`
	Line     *int    `json:"line"`
	Column   *int    `json:"column"`
}

func (m LintMessage) Level() Severity {
	return SeverityFromCode(m.Severity)
}

// Rule returns the rule id or "" when the report left it out.
func (m LintMessage) Rule() string {
	if m.RuleID == nil {
		return ""
	}
	return *m.RuleID
}

// LintEntry is one analyzed file. ErrorCount is taken from the report as is.
type LintEntry struct {
	FilePath     string        `json:"filePath"`
	ErrorCount   int           `json:"errorCount"`
	WarningCount int           `json:"warningCount"`
	Messages     []LintMessage `json:"messages"`
}

// NormalizedMessage has the fixed shape used by the flattened text report.
type NormalizedMessage struct {
	Line     *int
	Column   *int
	Severity Severity
	RuleID   string
	Message  string
}

func Normalize(m LintMessage) NormalizedMessage {
	return NormalizedMessage{
		Line:     m.Line,
		Column:   m.Column,
		Severity: m.Level(),
		RuleID:   m.Rule(),
		Message:  m.Message,
	}
}
