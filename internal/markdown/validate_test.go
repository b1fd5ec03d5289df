package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validPost() ParsedPost {
	return ParsedPost{
		Title:   "A Title",
		Content: "some content",
		Slug:    "a-title",
		Type:    TypeArticle,
		Status:  StatusPublished,
		Tags:    []string{"go"},
	}
}

func TestValidatePost(t *testing.T) {
	t.Run("valid article", func(t *testing.T) {
		ok, errs := ValidatePost(validPost())
		require.True(t, ok)
		require.Empty(t, errs)
	})

	t.Run("content boundary is inclusive", func(t *testing.T) {
		post := validPost()
		post.Content = strings.Repeat("a", maxContentLength)
		ok, _ := ValidatePost(post)
		require.True(t, ok)

		post.Content = strings.Repeat("a", maxContentLength+1)
		ok, errs := ValidatePost(post)
		require.False(t, ok)
		require.Contains(t, errs, "Content exceeds maximum length (100,000 characters)")
	})

	t.Run("all violations collected", func(t *testing.T) {
		post := ParsedPost{
			Title: strings.Repeat("t", maxTitleLength+1),
			Slug:  "a!",
			Type:  TypeArticle,
		}
		ok, errs := ValidatePost(post)
		require.False(t, ok)
		require.Contains(t, errs, "Content is required")
		require.Contains(t, errs, "Slug must be at least 3 characters")
		require.Contains(t, errs, "Slug contains invalid characters")
		require.Contains(t, errs, "Title exceeds maximum length (200 characters)")
	})

	t.Run("articles require title", func(t *testing.T) {
		post := validPost()
		post.Title = ""
		ok, errs := ValidatePost(post)
		require.False(t, ok)
		require.Contains(t, errs, "Articles require a title")

		post.Type = TypeNote
		ok, _ = ValidatePost(post)
		require.True(t, ok)
	})

	t.Run("tag limits", func(t *testing.T) {
		post := validPost()
		post.Tags = make([]string, maxTagCount+1)
		for i := range post.Tags {
			post.Tags[i] = "tag"
		}
		ok, errs := ValidatePost(post)
		require.False(t, ok)
		require.Contains(t, errs, "Too many tags (maximum 20)")

		post = validPost()
		long := strings.Repeat("x", maxTagLength+1)
		post.Tags = []string{long}
		ok, errs = ValidatePost(post)
		require.False(t, ok)
		require.Contains(t, errs, `Tag "`+long+`" exceeds maximum length (50 characters)`)
	})
}

func TestNormalizePost(t *testing.T) {
	post := ParsedPost{
		Title:   "  " + strings.Repeat("t", maxTitleLength+50) + "  ",
		Content: "  body  ",
		Excerpt: strings.Repeat("e", maxExcerptLength+10),
		Slug:    "  MiXeD-Case  ",
		Tags:    []string{" keep ", "", strings.Repeat("x", maxTagLength+5)},
	}
	got := NormalizePost(post)
	require.Len(t, []rune(got.Title), maxTitleLength)
	require.Equal(t, "body", got.Content)
	require.Len(t, []rune(got.Excerpt), maxExcerptLength)
	require.Equal(t, "mixed-case", got.Slug)
	require.Equal(t, []string{"keep", strings.Repeat("x", maxTagLength)}, got.Tags)
}

func TestNormalizePostCapsTags(t *testing.T) {
	tags := make([]string, maxTagCount+5)
	for i := range tags {
		tags[i] = "tag"
	}
	got := NormalizePost(ParsedPost{Content: "c", Tags: tags})
	require.Len(t, got.Tags, maxTagCount)
}
