// Package lintreport turns a decoded lint report into the console summary and
// the flattened plain-text report.
package lintreport

import (
	"path/filepath"
	"sort"

	"logsift/internal/types"

	"github.com/sajari/fuzzy"
)

// Options controls which entries and messages are kept. Zero values fall
// back to DefaultOptions.
type Options struct {
	TopN        int
	MaxMessages int
	TruncateAt  int
	// Rule, if set, keeps only messages with this rule id.
	Rule     string
	SkipFile func(path string) bool
	SkipRule func(ruleID string) bool
}

func DefaultOptions() Options {
	return Options{
		TopN:        10,
		MaxMessages: 3,
		TruncateAt:  100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.MaxMessages <= 0 {
		o.MaxMessages = d.MaxMessages
	}
	if o.TruncateAt <= 0 {
		o.TruncateAt = d.TruncateAt
	}
	return o
}

func (o Options) keepFile(path string) bool {
	return o.SkipFile == nil || !o.SkipFile(path)
}

func (o Options) keepMessage(m types.LintMessage) bool {
	rule := m.Rule()
	if o.Rule != "" && rule != o.Rule {
		return false
	}
	return o.SkipRule == nil || !o.SkipRule(rule)
}

// Summarize keeps entries with at least one error, ordered by error count
// (ties keep input order), and returns the top N with their first error
// messages truncated for display.
func Summarize(entries []types.LintEntry, opts Options) []types.SummaryEntry {
	opts = opts.withDefaults()

	var withErrors []types.LintEntry
	for _, entry := range entries {
		if entry.ErrorCount > 0 && opts.keepFile(entry.FilePath) {
			withErrors = append(withErrors, entry)
		}
	}

	sort.SliceStable(withErrors, func(i, j int) bool {
		return withErrors[i].ErrorCount > withErrors[j].ErrorCount
	})

	var summary []types.SummaryEntry
	for _, entry := range withErrors {
		if len(summary) == opts.TopN {
			break
		}

		var top []types.SummaryMessage
		for _, m := range entry.Messages {
			if len(top) == opts.MaxMessages {
				break
			}
			if m.Level() != types.SeverityError || !opts.keepMessage(m) {
				continue
			}
			top = append(top, types.SummaryMessage{
				Line:    m.Line,
				RuleID:  m.Rule(),
				Message: truncate(m.Message, opts.TruncateAt),
			})
		}
		if opts.Rule != "" && len(top) == 0 {
			continue
		}

		summary = append(summary, types.SummaryEntry{
			Rank:         len(summary) + 1,
			Path:         entry.FilePath,
			Name:         filepath.Base(filepath.FromSlash(entry.FilePath)),
			ErrorCount:   entry.ErrorCount,
			WarningCount: entry.WarningCount,
			TopErrors:    top,
		})
	}

	return summary
}

// Flatten keeps entries with any error or warning and normalizes every
// message, ordered by error count with ties in input order.
func Flatten(entries []types.LintEntry, opts Options) []types.FlatEntry {
	var flat []types.FlatEntry
	for _, entry := range entries {
		if entry.ErrorCount == 0 && entry.WarningCount == 0 {
			continue
		}
		if !opts.keepFile(entry.FilePath) {
			continue
		}

		messages := make([]types.NormalizedMessage, 0, len(entry.Messages))
		for _, m := range entry.Messages {
			if !opts.keepMessage(m) {
				continue
			}
			messages = append(messages, types.Normalize(m))
		}

		flat = append(flat, types.FlatEntry{
			FilePath:     entry.FilePath,
			ErrorCount:   entry.ErrorCount,
			WarningCount: entry.WarningCount,
			Messages:     messages,
		})
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].ErrorCount > flat[j].ErrorCount
	})

	return flat
}

// RuleIDs lists the distinct rule ids in the report in first-seen order.
func RuleIDs(entries []types.LintEntry) []string {
	seen := make(map[string]bool)
	var rules []string
	for _, entry := range entries {
		for _, m := range entry.Messages {
			rule := m.Rule()
			if rule == "" || seen[rule] {
				continue
			}
			seen[rule] = true
			rules = append(rules, rule)
		}
	}
	return rules
}

// SuggestRules returns rule ids from the report that are close to rule.
func SuggestRules(entries []types.LintEntry, rule string) []string {
	rules := RuleIDs(entries)
	if len(rules) == 0 {
		return nil
	}

	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	model.Train(rules)

	return model.Suggestions(rule, false)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
