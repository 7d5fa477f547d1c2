package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generated(body string) []byte {
	return []byte("// " + domain.GeneratedMarker + "\n" + body)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestWriteManaged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iam", "schemas.ts")
	w := New(false)

	res, err := w.Write(GeneratedFile{Path: path, Content: generated("v1"), Policy: PolicyManaged})
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)

	res, err = w.Write(GeneratedFile{Path: path, Content: generated("v1"), Policy: PolicyManaged})
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, res.Status)

	res, err = w.Write(GeneratedFile{Path: path, Content: generated("v2"), Policy: PolicyManaged})
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, res.Status)
	assert.Equal(t, string(generated("v2")), readFile(t, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteManagedPreservesHandWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.ts")
	require.NoError(t, os.WriteFile(path, []byte("// my own client\n"), 0o644))

	res, err := New(false).Write(GeneratedFile{Path: path, Content: generated("x"), Policy: PolicyManaged})
	require.NoError(t, err)
	assert.Equal(t, StatusPreserved, res.Status)
	assert.Equal(t, "// my own client\n", readFile(t, path))
}

func TestWriteCreateOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.ts")
	w := New(false)

	res, err := w.Write(GeneratedFile{Path: path, Content: []byte("export {};\n"), Policy: PolicyCreateOnly})
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, res.Status)

	require.NoError(t, os.WriteFile(path, []byte("export * from './extra';\n"), 0o644))

	res, err = w.Write(GeneratedFile{Path: path, Content: []byte("export {};\n"), Policy: PolicyCreateOnly})
	require.NoError(t, err)
	assert.Equal(t, StatusPreserved, res.Status)
	assert.Equal(t, "export * from './extra';\n", readFile(t, path))
}

func TestWriteAlways(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.pdf")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	res, err := New(false).Write(GeneratedFile{Path: path, Content: []byte("new"), Policy: PolicyAlways})
	require.NoError(t, err)
	assert.Equal(t, StatusUpdated, res.Status)
	assert.Equal(t, "new", readFile(t, path))
}

func TestWriteDryRun(t *testing.T) {
	dir := t.TempDir()
	w := New(true)

	results, err := w.WriteAll([]GeneratedFile{
		{Path: filepath.Join(dir, "a.ts"), Content: generated("a")},
		{Path: filepath.Join(dir, "sub", "b.ts"), Content: generated("b")},
	})
	require.NoError(t, err)

	assert.True(t, w.DryRun())
	assert.Equal(t, 2, Count(results, StatusCreated))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsGenerated(t *testing.T) {
	assert.True(t, IsGenerated(generated("")))
	assert.False(t, IsGenerated([]byte("hand written")))

	late := append(make([]byte, markerWindow), generated("")...)
	assert.False(t, IsGenerated(late))
}
