package markdown

import (
	"fmt"
	"strings"

	"github.com/xxxsen/mblog/internal/pkg/dateutil"
)

// GenerateContent rebuilds the front-matter document for an exported
// post: header block, blank line, raw content. Feeding the result back
// through ParseFrontMatter recovers the scalar fields.
func GenerateContent(post ExportPost) string {
	var b strings.Builder
	b.WriteString("---\n")

	if post.Title != "" {
		writeField(&b, "title", post.Title)
	}
	postType := post.Type
	if postType == "" {
		postType = TypeArticle
	}
	writeField(&b, "type", string(postType))

	created := normalizeExportDate(post.CreatedAt)
	if created != "" {
		writeField(&b, "date", created)
	}
	updated := normalizeExportDate(post.UpdatedAt)
	if updated != "" && updated != created {
		writeField(&b, "updated", updated)
	}

	status := post.Status
	if status == "" {
		status = string(StatusPublished)
	}
	writeField(&b, "status", status)
	writeField(&b, "slug", post.Slug)

	if len(post.Tags) > 0 {
		quoted := make([]string, 0, len(post.Tags))
		for _, tag := range post.Tags {
			quoted = append(quoted, fmt.Sprintf("%q", tag))
		}
		b.WriteString(fmt.Sprintf("tags: [%s]\n", strings.Join(quoted, ", ")))
	}
	if postType == TypeArticle && post.Excerpt != "" {
		writeField(&b, "excerpt", post.Excerpt)
	}
	if post.Language != "" && post.Language != "auto" {
		writeField(&b, "language", post.Language)
	}

	b.WriteString("---\n\n")
	b.WriteString(post.Content)
	return b.String()
}

// FallbackContent produces the minimal document substituted when
// content generation for a post fails; the export must still emit one
// entry per post.
func FallbackContent(post ExportPost) string {
	title := post.Title
	if title == "" {
		title = "Untitled Post"
	}
	content := post.Content
	if content == "" {
		content = "No content available"
	}
	postType := post.Type
	if postType == "" {
		postType = TypeArticle
	}
	status := post.Status
	if status == "" {
		status = string(StatusPublished)
	}
	slug := post.Slug
	if slug == "" {
		slug = "untitled"
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("title: %q\n", title))
	b.WriteString(fmt.Sprintf("type: %s\n", postType))
	b.WriteString(fmt.Sprintf("status: %s\n", status))
	b.WriteString(fmt.Sprintf("slug: %s\n", slug))
	b.WriteString(fmt.Sprintf("date: %s\n", dateutil.NowISO()))
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String()
}

// writeField quotes values carrying a colon or newline so the
// restricted grammar can read them back.
func writeField(b *strings.Builder, key, value string) {
	if strings.ContainsAny(value, ":\n") {
		escaped := strings.ReplaceAll(value, `"`, `\"`)
		escaped = strings.ReplaceAll(escaped, "\n", " ")
		b.WriteString(fmt.Sprintf("%s: \"%s\"\n", key, escaped))
		return
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", key, value))
}

func normalizeExportDate(value string) string {
	if value == "" {
		return ""
	}
	if t, ok := dateutil.Parse(value); ok {
		return dateutil.ToISO(t)
	}
	return ""
}
