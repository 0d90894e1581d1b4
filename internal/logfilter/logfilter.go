// Package logfilter keeps the interesting lines of compiler and build logs.
package logfilter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"logsift/internal/textenc"
)

// Line is a matching line and its 1-based position in the input.
type Line struct {
	Number int
	Text   string
}

type Matcher interface {
	Match(line string) bool
}

type MatchFunc func(string) bool

func (f MatchFunc) Match(line string) bool { return f(line) }

// ContainsFold matches lines containing sub in any letter case.
func ContainsFold(sub string) Matcher {
	lower := strings.ToLower(sub)
	return MatchFunc(func(line string) bool {
		return strings.Contains(strings.ToLower(line), lower)
	})
}

// Literal matches lines containing sub exactly.
func Literal(sub string) Matcher {
	return MatchFunc(func(line string) bool {
		return strings.Contains(line, sub)
	})
}

// Any matches when at least one of ms does.
func Any(ms ...Matcher) Matcher {
	return MatchFunc(func(line string) bool {
		for _, m := range ms {
			if m.Match(line) {
				return true
			}
		}
		return false
	})
}

// Filter returns the lines of r accepted by m in input order. Line
// terminators are dropped, everything else is kept as is. Lines have no
// length limit.
func Filter(r io.Reader, m Matcher) ([]Line, error) {
	br := bufio.NewReader(r)

	var lines []Line
	n := 0
	for {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read log: %w", err)
		}
		if text == "" && err != nil {
			break
		}
		n++
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
		if m.Match(text) {
			lines = append(lines, Line{Number: n, Text: text})
		}
		if err != nil {
			break
		}
	}
	return lines, nil
}

// SimpleMatcher is the default for Simple: "error" in any case, or the
// TypeScript diagnostic prefix "TS".
func SimpleMatcher(pattern, token string) Matcher {
	if token == "" {
		return ContainsFold(pattern)
	}
	return Any(ContainsFold(pattern), Literal(token))
}

// Simple decodes path with reader, stopping at the first candidate encoding
// that yields at least one line, and filters it with m. If no candidate
// yields a line the last decoded text is used, which for an empty file means
// no matches rather than an error.
func Simple(path string, reader *textenc.Reader, m Matcher) ([]Line, error) {
	decoded, err := reader.ReadFile(path)
	if err != nil {
		var exhausted *textenc.ExhaustedError
		if !errors.As(err, &exhausted) || !exhausted.HasText {
			return nil, err
		}
		decoded.Text = exhausted.LastText
	}
	return Filter(strings.NewReader(decoded.Text), m)
}

// HasLines is the acceptance check Simple readers are built with.
func HasLines(text string) bool {
	return text != ""
}

// Robust reads path tolerantly, replacing undecodable bytes, and keeps lines
// containing pattern in any case.
func Robust(path, pattern string) ([]Line, error) {
	text, err := textenc.ReadLenient(path)
	if err != nil {
		return nil, err
	}
	return Filter(strings.NewReader(text), ContainsFold(pattern))
}
