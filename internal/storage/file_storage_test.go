package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/textstats/internal/storage"
)

func TestFileStorage(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	defer fs.Close()

	corpus := &storage.Corpus{
		Name:      "animals",
		Documents: []string{"the cat sat", "the dog ran"},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	err = fs.Save(corpus)
	assert.NoError(t, err)

	loaded, err := fs.Get("animals")
	require.NoError(t, err)
	assert.Equal(t, corpus.Name, loaded.Name)
	assert.Equal(t, corpus.Documents, loaded.Documents)
	assert.True(t, corpus.CreatedAt.Equal(loaded.CreatedAt))
}

func TestFileStorage_Overwrite(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(&storage.Corpus{Name: "c", Documents: []string{"one"}}))
	require.NoError(t, fs.Save(&storage.Corpus{Name: "c", Documents: []string{"two", "three"}}))

	loaded, err := fs.Get("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, loaded.Documents)
}

func TestFileStorage_List(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	names, err := fs.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, fs.Save(&storage.Corpus{Name: "zeta"}))
	require.NoError(t, fs.Save(&storage.Corpus{Name: "my corpus/1"}))

	names, err = fs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"my corpus/1", "zeta"}, names)
}

func TestGetNonExistent(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Get("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStorage_SimilarNamesDoNotCollide(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save(&storage.Corpus{Name: "my corpus", Documents: []string{"alpha"}}))
	require.NoError(t, fs.Save(&storage.Corpus{Name: "my_corpus", Documents: []string{"beta"}}))

	first, err := fs.Get("my corpus")
	require.NoError(t, err)
	assert.Equal(t, "my corpus", first.Name)
	assert.Equal(t, []string{"alpha"}, first.Documents)

	second, err := fs.Get("my_corpus")
	require.NoError(t, err)
	assert.Equal(t, "my_corpus", second.Name)
	assert.Equal(t, []string{"beta"}, second.Documents)

	names, err := fs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"my corpus", "my_corpus"}, names)
}

func TestFileStorage_LongNamesDoNotCollide(t *testing.T) {
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	prefix := strings.Repeat("x", 150)
	require.NoError(t, fs.Save(&storage.Corpus{Name: prefix + "a", Documents: []string{"alpha"}}))
	require.NoError(t, fs.Save(&storage.Corpus{Name: prefix + "b", Documents: []string{"beta"}}))

	loaded, err := fs.Get(prefix + "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, loaded.Documents)

	_, err = fs.Get(prefix + "c")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFileStorage_GetRejectsForeignFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStorage(dir)
	require.NoError(t, err)

	require.NoError(t, fs.Save(&storage.Corpus{Name: "animals", Documents: []string{"cat"}}))

	// Rewrite the stored file so it claims a different name.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	path := filepath.Join(dir, entries[0].Name())
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"plants","documents":["fern"]}`), 0644))

	_, err = fs.Get("animals")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
