package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCSVFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.CSV"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	files, err := FindCSVFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2, "only CSV files, directories excluded")

	assert.Equal(t, "A.CSV", files[0].Name, "sorted by name")
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "b.csv"), files[1].Path)
}

func TestFindCSVFilesMissingDir(t *testing.T) {
	_, err := FindCSVFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("Vessel Name\nAurora\n"), 0o644))

	sources := LoadFiles(nil, []FileInfo{
		{Name: "a.csv", Path: path},
		{Name: "missing.csv", Path: filepath.Join(dir, "missing.csv")},
	})
	require.Len(t, sources, 2)

	assert.NoError(t, sources[0].Err)
	assert.NotEmpty(t, sources[0].Data)
	assert.Error(t, sources[1].Err, "read failures travel with the source file")
}
