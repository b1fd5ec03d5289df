package markdown

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	stdhtml "html"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	rendererhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	renderCacheSize = 512
	renderCacheTTL  = 10 * time.Minute
)

// Renderer converts markdown to HTML, caching by content hash.
type Renderer struct {
	md    goldmark.Markdown
	cache *expirable.LRU[string, string]
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererhtml.WithUnsafe()),
		),
		cache: expirable.NewLRU[string, string](renderCacheSize, nil, renderCacheTTL),
	}
}

func (r *Renderer) Render(markdown string) string {
	key := contentHash(markdown)
	if html, ok := r.cache.Get(key); ok {
		return html
	}
	var out bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &out); err != nil {
		return fallbackHTML(markdown)
	}
	html := out.String()
	r.cache.Add(key, html)
	return html
}

// fallbackHTML escapes the raw markdown and keeps line structure when
// conversion fails.
func fallbackHTML(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = stdhtml.EscapeString(line)
	}
	return strings.Join(lines, "<br />")
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
