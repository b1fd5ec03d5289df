// Package slugify turns arbitrary post titles and content into
// URL-safe identifiers. Chinese runs are transliterated to pinyin,
// Japanese kana to romaji; everything else passes through a single
// normalization pass. Transliteration failures keep the original
// substring instead of failing the slug.
package slugify

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gojp/kana"
	"github.com/mozillazg/go-pinyin"

	"github.com/xxxsen/mblog/internal/lang"
)

const (
	DefaultExcerptLength = 160

	MinSlugLength = 3
	MaxSlugLength = 100
)

var (
	hanRunRegex      = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+`)
	japaneseRunRegex = regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{4e00}-\x{9fff}]+`)
	invalidCharRegex = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
	hyphenRunRegex   = regexp.MustCompile(`-+`)

	slugRegex     = regexp.MustCompile(`(?i)^[\x{4e00}-\x{9fff}\x{3040}-\x{309f}\x{30a0}-\x{30ff}a-z0-9]+(?:-[\x{4e00}-\x{9fff}\x{3040}-\x{309f}\x{30a0}-\x{30ff}a-z0-9]+)*$`)
	noteSlugRegex = regexp.MustCompile(`^\d{8}-\d{6}$`)

	markdownImageRegex = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	markdownLinkRegex  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownCharRegex  = regexp.MustCompile("[#*`_~]")
	newlineRunRegex    = regexp.MustCompile(`\n+`)
)

// Generate builds a slug from text. An empty input yields an empty
// slug; callers are expected to substitute their own fallback.
func Generate(text string, language lang.Language) string {
	if text == "" {
		return ""
	}
	processed := text
	switch lang.Detect(text, language) {
	case lang.Chinese:
		processed = hanRunRegex.ReplaceAllStringFunc(processed, chineseToPinyin)
	case lang.Japanese:
		processed = japaneseRunRegex.ReplaceAllStringFunc(processed, japaneseToRomaji)
	}
	return normalize(processed)
}

// chineseToPinyin converts one Han run into hyphen-joined syllables.
// Runs the converter cannot handle come back unchanged.
func chineseToPinyin(run string) string {
	args := pinyin.NewArgs()
	syllables := pinyin.Pinyin(run, args)
	if len(syllables) == 0 {
		return run
	}
	parts := make([]string, 0, len(syllables))
	for _, s := range syllables {
		if len(s) == 0 {
			continue
		}
		parts = append(parts, s[0])
	}
	if len(parts) == 0 {
		return run
	}
	return strings.Join(parts, "-")
}

// japaneseToRomaji romanizes kana; kanji inside the run passes through
// untouched, same as a failed transliteration.
func japaneseToRomaji(run string) string {
	return kana.KanaToRomaji(run)
}

func normalize(text string) string {
	s := strings.ToLower(text)
	s = invalidCharRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, "-")
	s = hyphenRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateNoteSlug formats a timestamp-based slug for short-form
// posts: YYYYMMDD-HHMMSS in local time.
func GenerateNoteSlug(t time.Time) string {
	return t.Format("20060102-150405")
}

func NoteSlugNow() string {
	return GenerateNoteSlug(time.Now())
}

// FallbackSlug is substituted when no slug of at least MinSlugLength
// characters is derivable from a post.
func FallbackSlug() string {
	return fmt.Sprintf("imported-%d", time.Now().UnixMilli())
}

// GenerateExcerpt strips markdown syntax from content and truncates it
// at a word boundary near maxLength, appending an ellipsis marker when
// anything was cut off.
func GenerateExcerpt(content string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	plain := markdownImageRegex.ReplaceAllString(content, "")
	plain = markdownLinkRegex.ReplaceAllString(plain, "$1")
	plain = markdownCharRegex.ReplaceAllString(plain, "")
	plain = newlineRunRegex.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}
	truncated := string(runes[:maxLength])
	lastSpace := strings.LastIndex(truncated, " ")
	if float64(lastSpace) > float64(maxLength)*0.8 {
		return truncated[:lastSpace] + "..."
	}
	return truncated + "..."
}

// MatchesGrammar checks the slug grammar alone: CJK, kana and
// alphanumeric segments joined by single hyphens.
func MatchesGrammar(slug string) bool {
	return slugRegex.MatchString(slug)
}

// IsValidSlug checks the content-derived slug grammar plus the 3 to
// 100 rune length bounds.
func IsValidSlug(slug string) bool {
	length := len([]rune(slug))
	if length < MinSlugLength || length > MaxSlugLength {
		return false
	}
	return MatchesGrammar(slug)
}

// IsValidNoteSlug checks the timestamp slug grammar (YYYYMMDD-HHMMSS).
func IsValidNoteSlug(slug string) bool {
	return noteSlugRegex.MatchString(slug)
}
