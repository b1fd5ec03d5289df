package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xxxsen/mblog/internal/lang"
	"github.com/xxxsen/mblog/internal/pkg/dateutil"
	"github.com/xxxsen/mblog/internal/slugify"
)

// noteAutoClassifyLimit: bodies shorter than this with no explicit
// type are treated as notes.
const noteAutoClassifyLimit = 500

var (
	createdFields = []string{"date", "created", "created_at", "published"}
	updatedFields = []string{"updated", "updated_at", "modified", "lastmod"}
	tagFields     = []string{"tags", "categories", "keywords"}

	h1Regex           = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	filenameDateRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)
	fullDateRegex     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearMonthRegex    = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearRegex         = regexp.MustCompile(`^\d{4}$`)
	tagSplitRegex     = regexp.MustCompile(`[,;]`)
)

// ProcessFile derives a candidate post from one parsed markdown file.
// Missing fields are filled by policy; the returned slug is always
// non-empty and Errors collects any notes produced along the way.
func ProcessFile(file ParsedFile) ParsedPost {
	errs := make([]string, 0)
	fm := file.FrontMatter

	title, _ := fm.GetString("title")
	if title == "" {
		title = extractTitleFromContent(file.Body)
	}
	content := file.Body

	postType := TypeArticle
	if typeValue, ok := fm.GetString("type"); ok {
		if typeValue == string(TypeNote) {
			postType = TypeNote
		}
	} else if title == "" || len([]rune(content)) < noteAutoClassifyLimit {
		postType = TypeNote
	}

	slug, _ := fm.GetString("slug")
	if slug == "" {
		if title != "" {
			slug = slugify.Generate(title, lang.Auto)
		} else {
			runes := []rune(content)
			if len(runes) > 50 {
				runes = runes[:50]
			}
			slug = slugify.Generate(string(runes), lang.Auto)
		}
	}
	if len([]rune(slug)) < slugify.MinSlugLength {
		slug = slugify.FallbackSlug()
		errs = append(errs, "Generated fallback slug due to invalid original slug")
	}

	createdAt := extractCreatedDate(fm, file.RelativePath)
	updatedAt := extractUpdatedDate(fm, createdAt)
	tags := extractTags(fm)

	status := StatusPublished
	if statusValue, _ := fm.GetString("status"); statusValue == string(StatusDraft) {
		status = StatusDraft
	}

	excerpt, _ := fm.GetString("excerpt")
	if excerpt == "" && postType == TypeArticle && content != "" {
		excerpt = slugify.GenerateExcerpt(content, slugify.DefaultExcerptLength)
	}

	language := "auto"
	if value, ok := fm.GetString("language"); ok {
		language = value
	}

	return ParsedPost{
		Title:        title,
		Content:      content,
		Excerpt:      excerpt,
		Slug:         slug,
		Type:         postType,
		Status:       status,
		Language:     language,
		Tags:         tags,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		OriginalPath: file.RelativePath,
		Errors:       errs,
	}
}

// ProcessFiles runs ProcessFile over every file in a batch, rewriting
// slugs that collide within the batch and recording each collision.
// One file failing never aborts the rest.
func ProcessFiles(files []ParsedFile) ImportSummary {
	posts := make([]ParsedPost, 0, len(files))
	conflicts := make([]string, 0)
	errs := make([]string, 0)
	seen := make(map[string]bool)

	for _, file := range files {
		post, err := processOne(file)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Failed to process %s: %v", file.RelativePath, err))
			continue
		}
		if seen[post.Slug] {
			conflicts = append(conflicts, fmt.Sprintf("Duplicate slug: %s (%s)", post.Slug, file.RelativePath))
			post.Slug = renameConflict(post.Slug, seen)
		}
		seen[post.Slug] = true
		for _, e := range post.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", file.RelativePath, e))
		}
		posts = append(posts, post)
	}

	return ImportSummary{
		TotalFiles: len(files),
		ValidPosts: len(posts),
		Posts:      posts,
		Conflicts:  conflicts,
		Errors:     errs,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func processOne(file ParsedFile) (post ParsedPost, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return ProcessFile(file), nil
}

// renameConflict appends an epoch-millisecond suffix, bumping it until
// the result is unique so batch slugs stay pairwise distinct even when
// two collisions land on the same millisecond.
func renameConflict(slug string, seen map[string]bool) string {
	millis := nowMillis()
	for {
		candidate := fmt.Sprintf("%s-%d", slug, millis)
		if !seen[candidate] {
			return candidate
		}
		millis++
	}
}

func extractTitleFromContent(content string) string {
	if match := h1Regex.FindStringSubmatch(content); match != nil {
		return strings.TrimSpace(match[1])
	}
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		length := len([]rune(trimmed))
		if trimmed != "" && length > 5 && length < 100 && !strings.HasPrefix(trimmed, "##") {
			return trimmed
		}
	}
	return ""
}

// extractCreatedDate resolves the creation date with decreasing
// confidence: front matter, filename prefix, dated path segments, now.
func extractCreatedDate(fm FrontMatter, path string) string {
	for _, field := range createdFields {
		if value, ok := fm.GetString(field); ok {
			if t, ok := dateutil.Parse(value); ok {
				return dateutil.ToISO(t)
			}
		}
	}

	segments := strings.Split(path, "/")
	filename := segments[len(segments)-1]
	if match := filenameDateRegex.FindStringSubmatch(filename); match != nil {
		if t, ok := dateutil.Parse(match[1]); ok {
			return dateutil.ToISO(t)
		}
	}

	for _, segment := range segments {
		switch {
		case fullDateRegex.MatchString(segment):
			if t, ok := dateutil.Parse(segment); ok {
				return dateutil.ToISO(t)
			}
		case yearMonthRegex.MatchString(segment):
			if t, ok := dateutil.Parse(segment + "-01"); ok {
				return dateutil.ToISO(t)
			}
		case yearRegex.MatchString(segment):
			if t, ok := dateutil.Parse(segment + "-01-01"); ok {
				return dateutil.ToISO(t)
			}
		}
	}

	return dateutil.NowISO()
}

func extractUpdatedDate(fm FrontMatter, createdAt string) string {
	for _, field := range updatedFields {
		if value, ok := fm.GetString(field); ok {
			if t, ok := dateutil.Parse(value); ok {
				iso := dateutil.ToISO(t)
				if iso != createdAt {
					return iso
				}
			}
		}
	}
	return ""
}

// extractTags uses the first present tag-bearing field. Lists are used
// element-wise; strings split on commas and semicolons.
func extractTags(fm FrontMatter) []string {
	for _, field := range tagFields {
		value, ok := fm[field]
		if !ok || value.IsEmpty() {
			continue
		}
		switch value.Kind {
		case KindList:
			tags := make([]string, 0, len(value.List))
			for _, tag := range value.List {
				tag = strings.TrimSpace(tag)
				if tag != "" {
					tags = append(tags, tag)
				}
			}
			return tags
		case KindString:
			tags := make([]string, 0)
			for _, tag := range tagSplitRegex.Split(value.Str, -1) {
				tag = strings.TrimSpace(tag)
				if tag != "" {
					tags = append(tags, tag)
				}
			}
			return tags
		}
	}
	return []string{}
}
