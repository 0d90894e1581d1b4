package textenc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestReadFileUTF8(t *testing.T) {
	path := writeFile(t, []byte("héllo [1]"))

	got, err := NewReader(WithMarker("[")).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "héllo [1]", got.Text)
	assert.Equal(t, "utf-8", got.Encoding)
}

func TestReadFileFallsBackToCodePage(t *testing.T) {
	// 0xE9 is é in windows-1252 and invalid on its own in UTF-8.
	path := writeFile(t, []byte("caf\xe9 [1,2]"))

	got, err := NewReader(WithMarker("[")).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "café [1,2]", got.Text)
	assert.Equal(t, "windows-1252", got.Encoding)
}

func TestReadFileAliases(t *testing.T) {
	path := writeFile(t, []byte("caf\xe9"))

	got, err := NewReader(WithEncodings("utf8", "latin-1")).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "café", got.Text)
	assert.Equal(t, "latin-1", got.Encoding)
}

func TestReadFileExhausted(t *testing.T) {
	path := writeFile(t, []byte("no array here"))

	_, err := NewReader(WithMarker("[")).ReadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEncodingMatched))

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Len(t, exhausted.Attempts, 2)
	assert.True(t, exhausted.HasText)
	assert.Equal(t, "no array here", exhausted.LastText)
	for _, a := range exhausted.Attempts {
		assert.ErrorIs(t, a.Err, ErrRejected)
	}
	assert.Contains(t, err.Error(), "utf-8, windows-1252")
}

func TestReadFileUnknownEncoding(t *testing.T) {
	path := writeFile(t, []byte("text"))

	_, err := NewReader(WithEncodings("klingon")).ReadFile(path)
	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	require.Len(t, exhausted.Attempts, 1)
	assert.ErrorIs(t, exhausted.Attempts[0].Err, ErrUnknownEncoding)
	assert.False(t, exhausted.HasText)
}

func TestReadFileMissing(t *testing.T) {
	_, err := NewReader().ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrFileNotReadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFileCustomAccept(t *testing.T) {
	path := writeFile(t, []byte(""))

	_, err := NewReader(WithAccept(func(s string) bool { return s != "" })).ReadFile(path)
	assert.ErrorIs(t, err, ErrNoEncodingMatched)
}

func TestReadLenient(t *testing.T) {
	path := writeFile(t, []byte("ok\xffok\nerror here"))

	got, err := ReadLenient(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "ok"))
	assert.Contains(t, got, "�")
	assert.Contains(t, got, "error here")
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"UTF-8", "utf8", "cp1252", "Windows-1252", "latin1", "utf-16le"} {
		enc, err := Lookup(name)
		require.NoError(t, err, name)
		assert.NotNil(t, enc, name)
	}

	_, err := Lookup("not-a-charset")
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}
