package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateContentRoundTrip(t *testing.T) {
	post := ExportPost{
		Title:     "A Fine Article",
		Content:   "# Heading\n\nBody text.",
		Excerpt:   "A short excerpt",
		Slug:      "a-fine-article",
		Type:      TypeArticle,
		Status:    "published",
		Language:  "english",
		Tags:      []string{"go", "writing"},
		CreatedAt: "2023-05-10T08:00:00Z",
		UpdatedAt: "2023-06-01T09:30:00Z",
	}
	doc := GenerateContent(post)

	fm, body := ParseFrontMatter(doc)
	require.Equal(t, post.Content, body)

	title, _ := fm.GetString("title")
	require.Equal(t, post.Title, title)
	typ, _ := fm.GetString("type")
	require.Equal(t, "article", typ)
	slug, _ := fm.GetString("slug")
	require.Equal(t, post.Slug, slug)
	status, _ := fm.GetString("status")
	require.Equal(t, "published", status)
	date, _ := fm.GetString("date")
	require.Equal(t, "2023-05-10T08:00:00Z", date)
	updated, _ := fm.GetString("updated")
	require.Equal(t, "2023-06-01T09:30:00Z", updated)
	language, _ := fm.GetString("language")
	require.Equal(t, "english", language)
	require.Equal(t, []string{"go", "writing"}, fm["tags"].List)
	excerpt, _ := fm.GetString("excerpt")
	require.Equal(t, post.Excerpt, excerpt)
}

func TestGenerateContentOmitsMatchingUpdated(t *testing.T) {
	post := ExportPost{
		Content:   "body",
		Slug:      "x-y-z",
		Type:      TypeNote,
		CreatedAt: "2023-05-10T08:00:00Z",
		UpdatedAt: "2023-05-10T08:00:00Z",
	}
	doc := GenerateContent(post)
	require.NotContains(t, doc, "updated:")
	require.NotContains(t, doc, "excerpt:")
	require.NotContains(t, doc, "language:")
	require.NotContains(t, doc, "title:")
}

func TestGenerateContentQuotesColonValues(t *testing.T) {
	post := ExportPost{
		Title:     "Work: A Study",
		Content:   "body",
		Slug:      "work-a-study",
		Type:      TypeArticle,
		CreatedAt: "2023-01-01",
	}
	doc := GenerateContent(post)
	require.Contains(t, doc, "title: \"Work: A Study\"\n")

	fm, _ := ParseFrontMatter(doc)
	title, _ := fm.GetString("title")
	require.Equal(t, "Work: A Study", title)
}

func TestFallbackContent(t *testing.T) {
	doc := FallbackContent(ExportPost{})
	require.True(t, strings.HasPrefix(doc, "---\n"))
	require.Contains(t, doc, `title: "Untitled Post"`)
	require.Contains(t, doc, "slug: untitled")
	require.True(t, strings.HasSuffix(doc, "No content available"))

	fm, body := ParseFrontMatter(doc)
	require.Equal(t, "No content available", body)
	status, _ := fm.GetString("status")
	require.Equal(t, "published", status)
}
