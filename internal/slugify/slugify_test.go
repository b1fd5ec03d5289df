package slugify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mblog/internal/lang"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language lang.Language
		want     string
	}{
		{
			name:     "english title",
			text:     "Hello World!",
			language: lang.Auto,
			want:     "hello-world",
		},
		{
			name:     "chinese transliterated to pinyin",
			text:     "你好世界",
			language: lang.Chinese,
			want:     "ni-hao-shi-jie",
		},
		{
			name:     "japanese kana to romaji",
			text:     "こんにちは",
			language: lang.Japanese,
			want:     "konnichiha",
		},
		{
			name:     "punctuation stripped",
			text:     "What's New? (2024 Edition)",
			language: lang.English,
			want:     "whats-new-2024-edition",
		},
		{
			name:     "whitespace collapsed",
			text:     "  spaced   out \t title ",
			language: lang.English,
			want:     "spaced-out-title",
		},
		{
			name:     "empty input",
			text:     "",
			language: lang.Auto,
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Generate(tt.text, tt.language))
		})
	}
}

func TestGenerateChineseAuto(t *testing.T) {
	got := Generate("测试文章", lang.Auto)
	require.Equal(t, "ce-shi-wen-zhang", got)
	require.True(t, IsValidSlug(got))
}

func TestGenerateIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		language lang.Language
	}{
		{"english", "Hello World, Again!", lang.English},
		{"chinese", "你好世界", lang.Chinese},
		{"japanese", "こんにちは世界", lang.Japanese},
		{"auto chinese", "我的第一篇文章", lang.Auto},
		{"mixed", "Go 语言 tips", lang.Auto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Generate(tt.text, tt.language)
			require.Equal(t, first, Generate(first, tt.language))
			require.Equal(t, first, Generate(first, lang.Auto))
		})
	}
}

func TestNoteSlug(t *testing.T) {
	ts := time.Date(2023, 6, 1, 12, 30, 45, 0, time.UTC)
	slug := GenerateNoteSlug(ts)
	require.Equal(t, "20230601-123045", slug)
	require.True(t, IsValidNoteSlug(slug))
	require.False(t, IsValidNoteSlug("2023-06-01"))
	require.False(t, IsValidNoteSlug("20230601123045"))
}

func TestFallbackSlug(t *testing.T) {
	slug := FallbackSlug()
	require.True(t, strings.HasPrefix(slug, "imported-"))
	require.True(t, IsValidSlug(slug))
}

func TestIsValidSlug(t *testing.T) {
	require.True(t, IsValidSlug("hello-world"))
	require.True(t, IsValidSlug("abc"))
	require.True(t, IsValidSlug("post-123"))
	require.True(t, IsValidSlug("你好-world"))

	require.False(t, IsValidSlug("ab"))
	require.False(t, IsValidSlug("-leading"))
	require.False(t, IsValidSlug("trailing-"))
	require.False(t, IsValidSlug("double--hyphen"))
	require.False(t, IsValidSlug("has space"))
	require.False(t, IsValidSlug(strings.Repeat("a", MaxSlugLength+1)))
	require.True(t, IsValidSlug(strings.Repeat("a", MaxSlugLength)))
}

func TestGenerateExcerpt(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		require.Equal(t, "just text", GenerateExcerpt("just text", 160))
	})

	t.Run("markdown stripped", func(t *testing.T) {
		content := "Some **bold** text and [a link](http://x) here."
		got := GenerateExcerpt(content, 160)
		require.Equal(t, "Some bold text and a link here.", got)
	})

	t.Run("truncates at word boundary", func(t *testing.T) {
		content := "The quick brown fox jumps over the lazy dog"
		got := GenerateExcerpt(content, 20)
		require.Equal(t, "The quick brown fox...", got)
	})

	t.Run("hard cut when no usable space", func(t *testing.T) {
		content := strings.Repeat("x", 50)
		got := GenerateExcerpt(content, 20)
		require.Equal(t, strings.Repeat("x", 20)+"...", got)
	})
}
