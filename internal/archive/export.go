package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/xxxsen/mblog/internal/markdown"
	"github.com/xxxsen/mblog/internal/pkg/dateutil"
)

// BuildExportZip serializes every post into a dated ZIP layout:
// {articles|notes}/{YYYY-MM}/{slug}.md. A post whose content cannot be
// generated still gets an entry, built from the fallback document, so
// the archive always holds one file per post.
func BuildExportZip(posts []markdown.ExportPost) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	used := make(map[string]int)
	for _, post := range posts {
		content, ok := safeGenerate(post)
		name := entryName(post, !ok, used)
		entry, err := writer.Create(name)
		if err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("create zip entry %s: %w", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write zip entry %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func safeGenerate(post markdown.ExportPost) (content string, ok bool) {
	defer func() {
		if recover() != nil {
			content = markdown.FallbackContent(post)
			ok = false
		}
	}()
	return markdown.GenerateContent(post), true
}

// entryName buckets by type and creation month. Fallback documents go
// under a literal "unknown" bucket so a broken record never claims a
// dated path.
func entryName(post markdown.ExportPost, fallback bool, used map[string]int) string {
	folder := "notes"
	if post.Type == markdown.TypeArticle {
		folder = "articles"
	}
	bucket := dateutil.MonthBucket(post.CreatedAt)
	if fallback {
		bucket = "unknown"
	}
	slug := post.Slug
	if slug == "" {
		slug = "untitled"
		if post.ID != "" {
			slug = "post-" + post.ID
		}
	}
	name := fmt.Sprintf("%s/%s/%s.md", folder, bucket, slug)
	used[name] += 1
	if used[name] > 1 {
		name = fmt.Sprintf("%s/%s/%s-%d.md", folder, bucket, slug, used[name])
	}
	return name
}
