package markdown

import (
	"fmt"
	"strings"

	"github.com/xxxsen/mblog/internal/slugify"
)

const (
	maxContentLength = 100000
	maxTitleLength   = 200
	maxExcerptLength = 500
	maxTagLength     = 50
	maxTagCount      = 20
)

// ValidatePost checks the structural constraints on a candidate post.
// Every violation is collected; the caller always sees the full list.
func ValidatePost(post ParsedPost) (bool, []string) {
	errs := make([]string, 0)

	if strings.TrimSpace(post.Content) == "" {
		errs = append(errs, "Content is required")
	}
	if len([]rune(post.Slug)) < slugify.MinSlugLength {
		errs = append(errs, "Slug must be at least 3 characters")
	}
	if !slugify.MatchesGrammar(post.Slug) {
		errs = append(errs, "Slug contains invalid characters")
	}
	if len([]rune(post.Content)) > maxContentLength {
		errs = append(errs, "Content exceeds maximum length (100,000 characters)")
	}
	if post.Type == TypeArticle && strings.TrimSpace(post.Title) == "" {
		errs = append(errs, "Articles require a title")
	}
	if len([]rune(post.Title)) > maxTitleLength {
		errs = append(errs, "Title exceeds maximum length (200 characters)")
	}
	if len(post.Tags) > maxTagCount {
		errs = append(errs, "Too many tags (maximum 20)")
	}
	for _, tag := range post.Tags {
		if len([]rune(tag)) > maxTagLength {
			errs = append(errs, fmt.Sprintf("Tag %q exceeds maximum length (50 characters)", tag))
		}
	}

	return len(errs) == 0, errs
}

// NormalizePost is the clamp/trim pass applied before validation.
// Oversized tags are truncated and the tag list capped rather than
// rejected.
func NormalizePost(post ParsedPost) ParsedPost {
	post.Title = truncateRunes(strings.TrimSpace(post.Title), maxTitleLength)
	post.Content = strings.TrimSpace(post.Content)
	post.Excerpt = truncateRunes(strings.TrimSpace(post.Excerpt), maxExcerptLength)
	post.Slug = strings.TrimSpace(strings.ToLower(post.Slug))

	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tag = truncateRunes(strings.TrimSpace(tag), maxTagLength)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTagCount {
			break
		}
	}
	post.Tags = tags
	return post
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
