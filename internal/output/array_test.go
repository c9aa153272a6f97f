package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   string `json:"id"`
	Note string `json:"note,omitempty"`
}

func TestArrayWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	a := NewArrayWriter(&buf)
	require.NoError(t, a.Close())
	assert.Equal(t, "[]\n", buf.String())

	var out []rec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Empty(t, out)
}

func TestArrayWriter_Values(t *testing.T) {
	var buf bytes.Buffer
	a := NewArrayWriter(&buf)
	require.NoError(t, a.Write(rec{ID: "a"}))
	require.NoError(t, a.Write(rec{ID: "b", Note: "<&>"}))
	require.NoError(t, a.Close())
	assert.Equal(t, 2, a.Count())

	want := "[\n{\n  \"id\": \"a\"\n},\n{\n  \"id\": \"b\",\n  \"note\": \"<&>\"\n}\n]\n"
	assert.Equal(t, want, buf.String())

	var out []rec
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "b", out[1].ID)
}

func TestArrayWriter_WriteAfterClose(t *testing.T) {
	a := NewArrayWriter(&bytes.Buffer{})
	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Write(rec{ID: "x"}), ErrClosed)
	assert.ErrorIs(t, a.Close(), ErrClosed)
}

func TestFile_CloseRenames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "FY21.json")
	f, err := Create(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())

	require.NoError(t, f.Write(rec{ID: "a"}))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "target must not exist before Close")

	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []rec
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Len(t, out, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be gone")
}

func TestFile_Abort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FY21.json")
	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Write(rec{ID: "a"}))

	f.Abort()
	f.Abort()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.ErrorIs(t, f.Write(rec{ID: "b"}), ErrClosed)
	assert.ErrorIs(t, f.Close(), ErrClosed)
}

func TestFile_AbortAfterCloseKeepsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FY21.json")
	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	f.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
