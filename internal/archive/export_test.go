package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mblog/internal/markdown"
)

func readZipEntries(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	entries := make(map[string]string)
	for _, file := range reader.File {
		opened, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(opened)
		require.NoError(t, err)
		require.NoError(t, opened.Close())
		entries[file.Name] = string(content)
	}
	return entries
}

func TestBuildExportZipLayout(t *testing.T) {
	posts := []markdown.ExportPost{
		{
			Title:     "An Article",
			Content:   "article body",
			Slug:      "an-article",
			Type:      markdown.TypeArticle,
			CreatedAt: "2023-05-10T08:00:00Z",
		},
		{
			Content:   "note body",
			Slug:      "20230601-120000",
			Type:      markdown.TypeNote,
			CreatedAt: "2023-06-01T12:00:00Z",
		},
		{
			Content:   "typeless body",
			Slug:      "mystery",
			Type:      markdown.PostType("widget"),
			CreatedAt: "2023-01-02",
		},
	}
	data, err := BuildExportZip(posts)
	require.NoError(t, err)

	entries := readZipEntries(t, data)
	require.Len(t, entries, len(posts))
	require.Contains(t, entries, "articles/2023-05/an-article.md")
	require.Contains(t, entries, "notes/2023-06/20230601-120000.md")
	require.Contains(t, entries, "notes/2023-01/mystery.md")

	doc := entries["articles/2023-05/an-article.md"]
	fm, body := markdown.ParseFrontMatter(doc)
	require.Equal(t, "article body", body)
	slug, _ := fm.GetString("slug")
	require.Equal(t, "an-article", slug)
}

func TestBuildExportZipDuplicateSlugs(t *testing.T) {
	posts := []markdown.ExportPost{
		{Content: "a", Slug: "dup", Type: markdown.TypeArticle, CreatedAt: "2023-05-10"},
		{Content: "b", Slug: "dup", Type: markdown.TypeArticle, CreatedAt: "2023-05-11"},
	}
	data, err := BuildExportZip(posts)
	require.NoError(t, err)
	entries := readZipEntries(t, data)
	require.Len(t, entries, 2)
	require.Contains(t, entries, "articles/2023-05/dup.md")
	require.Contains(t, entries, "articles/2023-05/dup-2.md")
}

func TestEntryNameFallbackBucket(t *testing.T) {
	used := make(map[string]int)
	post := markdown.ExportPost{Slug: "broken-post", Type: markdown.TypeArticle, CreatedAt: "2023-05-10"}
	require.Equal(t, "articles/unknown/broken-post.md", entryName(post, true, used))

	note := markdown.ExportPost{ID: "42", Type: markdown.TypeNote}
	require.Equal(t, "notes/unknown/post-42.md", entryName(note, true, used))
}

func TestBuildExportZipEmpty(t *testing.T) {
	data, err := BuildExportZip(nil)
	require.NoError(t, err)
	require.Empty(t, readZipEntries(t, data))
}
