package search

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchLine(t *testing.T) {
	s := NewSearcher()

	assert.Equal(t, []int{1, 9}, s.SearchLine("foo bar foo", "foo"))
	assert.Equal(t, []int{5}, s.SearchLine("foo bar foo", "bar"))
	assert.Nil(t, s.SearchLine("foo bar", "baz"))
	assert.Nil(t, s.SearchLine("foo", ""))
}

func TestSearchLineOverlapping(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, NewSearcher().SearchLine("aaaa", "aa"))
}

func TestSearchLineCaseInsensitive(t *testing.T) {
	s := NewSearcher().CaseInsensitive()

	assert.Equal(t, []int{1, 8}, s.SearchLine("Error: error", "ERROR"))
	assert.Nil(t, NewSearcher().SearchLine("Error", "error"))
}

func TestSearchLineWholeWord(t *testing.T) {
	s := NewSearcher().WholeWord()

	assert.Equal(t, []int{1}, s.SearchLine("cat catalog", "cat"))
	assert.Nil(t, s.SearchLine("catalog concat", "cat"))
	assert.Equal(t, []int{6}, s.SearchLine("the (cat)", "cat"))
	assert.Nil(t, s.SearchLine("cat_food", "cat"), "underscore is a word character")
}

func TestSearchLineUnicodeColumns(t *testing.T) {
	// Columns count runes, not bytes.
	assert.Equal(t, []int{5}, NewSearcher().SearchLine("日本語 find", "find"))
}

func TestSearchFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"log.txt": "ok line\nerror here\nfine\nanother error\n",
	})

	matches, err := NewSearcher().SearchFile(filepath.Join(root, "log.txt"), "error")
	require.NoError(t, err)

	want := []Match{
		{File: filepath.Join(root, "log.txt"), Line: 2, Column: 1, Text: "error here"},
		{File: filepath.Join(root, "log.txt"), Line: 4, Column: 9, Text: "another error"},
	}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchFileMissing(t *testing.T) {
	_, err := NewSearcher().SearchFile(filepath.Join(t.TempDir(), "nope.txt"), "x")
	assert.Error(t, err)
}

func TestSearchFilesOrdered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.txt": "needle\n",
		"a.txt": "hay\nneedle needle\n",
		"c.txt": "nothing\n",
	})

	files := []string{
		filepath.Join(root, "c.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "a.txt"),
	}

	matches, err := NewSearcher().WithWorkers(2).SearchFiles(context.Background(), files, "needle")
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, filepath.Join(root, "a.txt"), matches[0].File)
	assert.Equal(t, 1, matches[0].Column)
	assert.Equal(t, 8, matches[1].Column)
	assert.Equal(t, filepath.Join(root, "b.txt"), matches[2].File)
}

func TestSearchDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/main.go":    "package main // TODO later\n",
		"docs/notes.md":  "nothing here\n",
		".git/COMMIT":    "TODO hidden\n",
	})

	matches, err := NewSearcher().SearchDir(context.Background(), root, "TODO")
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, filepath.Join(root, "src/main.go"), matches[0].File)
}

func TestSearchDirCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x\n"})

	_, err := NewSearcher().SearchFiles(ctx, []string{filepath.Join(root, "a.txt")}, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
