package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagesExtractor struct {
	pages []string
	err   error
}

func (p pagesExtractor) Extract(string) ([]string, error) { return p.pages, p.err }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.TXT", "  hello world \n")

	docs, err := New().LoadFile(path)
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "hello world", docs[0].Text)
	assert.Equal(t, "notes.TXT", docs[0].Metadata.DocumentName)
	assert.Equal(t, path, docs[0].Metadata.Source)
	assert.Equal(t, 1, docs[0].Metadata.Page)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sheet.xlsx", "x")

	_, err := New().LoadFile(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile_SkipsBlankPagesKeepingNumbers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "book.fake", "")
	l := New(WithExtractor(".FAKE", pagesExtractor{pages: []string{"one", "  ", "three"}}))

	docs, err := l.LoadFile(path)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].Metadata.Page)
	assert.Equal(t, 3, docs[1].Metadata.Page)
	assert.Equal(t, "three", docs[1].Text)
}

func TestLoadFile_InvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", "this is not a pdf")

	_, err := New().LoadFile(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFolder_OrderAndSkips(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second file")
	writeFile(t, dir, "a.txt", "first file")
	writeFile(t, dir, "image.png", "binary")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	docs, err := New().LoadFolder(dir)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "a.txt", docs[0].Metadata.DocumentName)
	assert.Equal(t, "b.txt", docs[1].Metadata.DocumentName)
}

func TestLoadFolder_NoDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   ")
	writeFile(t, dir, "photo.jpg", "x")

	_, err := New().LoadFolder(dir)
	require.ErrorIs(t, err, ErrNoDocuments)
}

func TestLoadFolder_ExtractorFailureAborts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "fine")
	writeFile(t, dir, "b.bad", "x")
	boom := errors.New("boom")
	l := New(WithExtractor(".bad", pagesExtractor{err: boom}))

	_, err := l.LoadFolder(dir)
	require.ErrorIs(t, err, boom)
}

func TestSupportsAndExtensions(t *testing.T) {
	l := New()

	assert.True(t, l.Supports("Report.PDF"))
	assert.True(t, l.Supports("a.txt"))
	assert.False(t, l.Supports("a.docx"))
	assert.Equal(t, []string{".pdf", ".txt"}, l.Extensions())
}
