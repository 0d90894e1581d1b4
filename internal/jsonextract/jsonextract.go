// Package jsonextract pulls a JSON array payload out of noisy tool output.
package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"logsift/internal/textenc"
)

var (
	ErrNoArrayStart = errors.New("could not find start of JSON array")
	ErrNoArrayEnd   = errors.New("could not find end of JSON array")
)

// Method tells which path produced a payload.
type Method int

const (
	// MethodStrict means the input already was a JSON array.
	MethodStrict Method = iota
	// MethodHeuristic means the payload was cut from the first '[' to the
	// last ']'. Nesting and quoting are not looked at.
	MethodHeuristic
)

func (m Method) String() string {
	if m == MethodStrict {
		return "strict"
	}
	return "heuristic"
}

type Result struct {
	Payload string
	Method  Method
	// Valid reports whether Payload parses as JSON. It is informational only.
	Valid bool
	// Encoding is set by Clean to the encoding the input was decoded with.
	Encoding string
}

// Extract returns the JSON array embedded in text. Text that is already a
// clean array is returned unchanged, so Extract is idempotent on its output.
func Extract(text string) (Result, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "[") && json.Valid([]byte(trimmed)) {
		return Result{Payload: trimmed, Method: MethodStrict, Valid: true}, nil
	}

	start := strings.IndexByte(text, '[')
	if start == -1 {
		return Result{}, ErrNoArrayStart
	}
	rest := text[start:]

	end := strings.LastIndexByte(rest, ']')
	if end == -1 {
		return Result{}, ErrNoArrayEnd
	}

	payload := rest[:end+1]
	return Result{
		Payload: payload,
		Method:  MethodHeuristic,
		Valid:   json.Valid([]byte(payload)),
	}, nil
}

// Clean reads in through reader, extracts the array and writes it to out as
// UTF-8. Nothing is written when extraction fails.
func Clean(in, out string, reader *textenc.Reader) (Result, error) {
	decoded, err := reader.ReadFile(in)
	if err != nil {
		var exhausted *textenc.ExhaustedError
		if errors.As(err, &exhausted) && onlyRejected(exhausted) {
			// Every candidate decoded but none held a '['. Let the extractor
			// say so; the exhaustion error stays in the chain.
			if _, extractErr := Extract(exhausted.LastText); extractErr != nil {
				return Result{}, fmt.Errorf("%w: %w", extractErr, err)
			}
		}
		return Result{}, err
	}

	result, err := Extract(decoded.Text)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", in, err)
	}
	result.Encoding = decoded.Encoding

	if err := os.WriteFile(out, []byte(result.Payload), 0644); err != nil {
		return Result{}, fmt.Errorf("failed to write cleaned JSON to %s: %w", out, err)
	}
	return result, nil
}

func onlyRejected(e *textenc.ExhaustedError) bool {
	if !e.HasText || len(e.Attempts) == 0 {
		return false
	}
	for _, a := range e.Attempts {
		if !errors.Is(a.Err, textenc.ErrRejected) {
			return false
		}
	}
	return true
}
