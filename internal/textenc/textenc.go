// Package textenc reads text files whose encoding is not known up front by
// trying an ordered list of candidate encodings.
package textenc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	ErrFileNotReadable   = errors.New("file not readable")
	ErrUnknownEncoding   = errors.New("unknown encoding")
	ErrDecode            = errors.New("decode failed")
	ErrRejected          = errors.New("decoded text rejected")
	ErrNoEncodingMatched = errors.New("no candidate encoding matched")
)

// DefaultEncodings is UTF-8 followed by the usual Windows code page that
// compiler and linter output ends up in on Windows machines.
var DefaultEncodings = []string{"utf-8", "windows-1252"}

// aliases covers the spellings people pass that are not IANA names.
var aliases = map[string]string{
	"utf8":     "UTF-8",
	"cp1252":   "windows-1252",
	"cp1251":   "windows-1251",
	"cp1250":   "windows-1250",
	"latin-1":  "ISO-8859-1",
	"latin1":   "ISO-8859-1",
	"cp437":    "IBM437",
	"utf16":    "UTF-16",
	"utf-16le": "UTF-16LE",
	"utf-16be": "UTF-16BE",
}

// Decoded is the text of a file and the encoding that produced it.
type Decoded struct {
	Text     string
	Encoding string
}

// Attempt records why one candidate encoding was not used.
type Attempt struct {
	Encoding string
	Err      error
}

// ExhaustedError is returned when no candidate both decoded the file and
// passed the accept check. LastText holds the output of the last candidate
// that decoded at all, for callers that want to carry on with it anyway.
type ExhaustedError struct {
	Path     string
	Attempts []Attempt
	LastText string
	HasText  bool
}

func (e *ExhaustedError) Error() string {
	tried := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		tried[i] = a.Encoding
	}
	return fmt.Sprintf("%s: %v (tried %s)", e.Path, ErrNoEncodingMatched, strings.Join(tried, ", "))
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrNoEncodingMatched
}

type Option func(*Reader)

// WithEncodings replaces the candidate list. Order matters.
func WithEncodings(names ...string) Option {
	return func(r *Reader) {
		r.encodings = append([]string(nil), names...)
	}
}

// WithMarker only accepts decoded text containing marker.
func WithMarker(marker string) Option {
	return func(r *Reader) {
		r.accept = func(text string) bool {
			return strings.Contains(text, marker)
		}
	}
}

// WithAccept installs a custom acceptance check on the decoded text.
func WithAccept(accept func(string) bool) Option {
	return func(r *Reader) {
		r.accept = accept
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Reader decodes files with the first candidate encoding that works.
type Reader struct {
	encodings []string
	accept    func(string) bool
	logger    *slog.Logger
}

func NewReader(opts ...Option) *Reader {
	r := &Reader{
		encodings: append([]string(nil), DefaultEncodings...),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Encodings returns the candidate list in trial order.
func (r *Reader) Encodings() []string {
	return append([]string(nil), r.encodings...)
}

// ReadFile re-reads the whole file once per candidate and returns the first
// decoding that succeeds and is accepted. A file that cannot be read at all
// fails immediately with ErrFileNotReadable.
func (r *Reader) ReadFile(path string) (Decoded, error) {
	exhausted := &ExhaustedError{Path: path}

	for _, name := range r.encodings {
		data, err := os.ReadFile(path)
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
		}

		text, err := decode(name, data)
		if err != nil {
			r.logger.Debug("encoding attempt failed", "path", path, "encoding", name, "error", err)
			exhausted.Attempts = append(exhausted.Attempts, Attempt{Encoding: name, Err: err})
			continue
		}
		exhausted.LastText = text
		exhausted.HasText = true

		if r.accept != nil && !r.accept(text) {
			r.logger.Debug("decoded text rejected", "path", path, "encoding", name)
			exhausted.Attempts = append(exhausted.Attempts, Attempt{Encoding: name, Err: ErrRejected})
			continue
		}

		r.logger.Debug("decoded file", "path", path, "encoding", name, "bytes", len(data))
		return Decoded{Text: text, Encoding: name}, nil
	}

	return Decoded{}, exhausted
}

// ReadLenient reads path as UTF-8, replacing undecodable bytes with U+FFFD
// instead of failing.
func ReadLenient(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFileNotReadable, path, err)
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	}
	return string(out), nil
}

// Lookup resolves an encoding name or one of the common aliases.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return enc, nil
}

func decode(name string, data []byte) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}

	if isUTF8(enc) {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: invalid utf-8", ErrDecode)
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	// x/text substitutes U+FFFD for bytes a code page does not define.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("%w: undefined bytes for %s", ErrDecode, name)
	}
	return string(out), nil
}

func isUTF8(enc encoding.Encoding) bool {
	name, err := ianaindex.IANA.Name(enc)
	return err == nil && name == "UTF-8"
}
