// Package balance does a character-level bracket count over a source file.
// It does not parse the language, so brackets inside strings and comments
// are counted like any other.
package balance

import (
	"fmt"
	"strings"
)

// Pair is one kind of bracket.
type Pair struct {
	Open  rune
	Close rune
	Name  string
}

var (
	Parens   = Pair{Open: '(', Close: ')', Name: "parentheses"}
	Brackets = Pair{Open: '[', Close: ']', Name: "square brackets"}
	Braces   = Pair{Open: '{', Close: '}', Name: "curly braces"}
)

// DefaultPairs are checked by CheckAll when no pairs are given.
var DefaultPairs = []Pair{Parens, Brackets, Braces}

type Result struct {
	Pair Pair
	OK   bool
	// Count is the open minus close count where the scan stopped.
	Count int
	// Index is the 0-based character index of an unexpected closer, or -1.
	Index   int
	Message string
}

// Check scans text left to right. It stops at the first closer that has no
// opener before it; otherwise it reports the net count at the end.
func Check(text string, pair Pair) Result {
	count := 0
	i := 0
	for _, r := range text {
		switch r {
		case pair.Open:
			count++
		case pair.Close:
			count--
		}
		if count < 0 {
			return Result{
				Pair:    pair,
				Count:   count,
				Index:   i,
				Message: fmt.Sprintf("unexpected closing %s at character %d", pair.Name, i),
			}
		}
		i++
	}

	if count != 0 {
		return Result{
			Pair:    pair,
			Count:   count,
			Index:   -1,
			Message: fmt.Sprintf("unbalanced %s: %d", pair.Name, count),
		}
	}
	return Result{
		Pair:    pair,
		OK:      true,
		Index:   -1,
		Message: fmt.Sprintf("%s seem balanced", pair.Name),
	}
}

// CheckAll runs Check for every pair independently.
func CheckAll(text string, pairs ...Pair) []Result {
	if len(pairs) == 0 {
		pairs = DefaultPairs
	}
	results := make([]Result, len(pairs))
	for i, p := range pairs {
		results[i] = Check(text, p)
	}
	return results
}

// TagCount is a heuristic: it counts occurrences of an opening and a closing
// tag token and nothing more. Position and nesting are ignored, and
// self-closing tags are counted as opens.
type TagCount struct {
	Open   string
	Close  string
	Opens  int
	Closes int
}

func (t TagCount) Balanced() bool {
	return t.Opens == t.Closes
}

func (t TagCount) String() string {
	return fmt.Sprintf("%s: %d, %s: %d", t.Open, t.Opens, t.Close, t.Closes)
}

// CountTags counts occurrences of open and close in text.
func CountTags(text, open, close string) TagCount {
	tc := TagCount{Open: open, Close: close}
	if open != "" {
		tc.Opens = strings.Count(text, open)
	}
	if close != "" {
		tc.Closes = strings.Count(text, close)
	}
	return tc
}
