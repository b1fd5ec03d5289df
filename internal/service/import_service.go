package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mblog/internal/archive"
	"github.com/xxxsen/mblog/internal/markdown"
	"github.com/xxxsen/mblog/internal/model"
	"github.com/xxxsen/mblog/internal/pkg/dateutil"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
)

// PostStore is the slice of the post repository the importer needs;
// tests substitute in-memory fakes.
type PostStore interface {
	ListSlugs(ctx context.Context) (map[string]string, error)
	GetByID(ctx context.Context, postID string) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
}

type TagStore interface {
	List(ctx context.Context) ([]model.Tag, error)
	Ensure(ctx context.Context, name string) (*model.Tag, error)
}

type PostTagStore interface {
	ReplaceForPost(ctx context.Context, postID string, tagIDs []string) error
}

type ImportOptions struct {
	OverwriteExisting bool `json:"overwrite_existing"`
	CreateMissingTags bool `json:"create_missing_tags"`
}

type ImportResult struct {
	TotalFiles  int      `json:"total_files"`
	Imported    int      `json:"imported"`
	Skipped     int      `json:"skipped"`
	Overwritten int      `json:"overwritten"`
	NewTags     int      `json:"new_tags"`
	Errors      []string `json:"errors"`
}

// PreviewResult reports what an import would do without touching
// storage.
type PreviewResult struct {
	TotalFiles int                   `json:"total_files"`
	ValidPosts int                   `json:"valid_posts"`
	Posts      []markdown.ParsedPost `json:"posts"`
	Conflicts  []string              `json:"conflicts"`
	Errors     []string              `json:"errors"`
}

type ImportService struct {
	posts    PostStore
	tags     TagStore
	postTags PostTagStore
}

func NewImportService(posts PostStore, tags TagStore, postTags PostTagStore) *ImportService {
	return &ImportService{posts: posts, tags: tags, postTags: postTags}
}

// Preview parses the upload and annotates batch plus storage slug
// conflicts.
func (s *ImportService) Preview(ctx context.Context, filename string, data []byte) (*PreviewResult, error) {
	summary, err := s.parseUpload(filename, data)
	if err != nil {
		return nil, err
	}
	existing, err := s.posts.ListSlugs(ctx)
	if err != nil {
		return nil, err
	}
	conflicts := append([]string{}, summary.Conflicts...)
	for _, post := range summary.Posts {
		normalized := markdown.NormalizePost(post)
		if _, ok := existing[normalized.Slug]; ok {
			conflicts = append(conflicts, fmt.Sprintf("Slug already exists: %s (%s)", normalized.Slug, post.OriginalPath))
		}
	}
	return &PreviewResult{
		TotalFiles: summary.TotalFiles,
		ValidPosts: summary.ValidPosts,
		Posts:      summary.Posts,
		Conflicts:  conflicts,
		Errors:     summary.Errors,
	}, nil
}

// Import runs the full pipeline. Existing slugs and tags are read once
// at the start; nothing about the run survives the call.
func (s *ImportService) Import(ctx context.Context, filename string, data []byte, opts ImportOptions) (*ImportResult, error) {
	summary, err := s.parseUpload(filename, data)
	if err != nil {
		return nil, err
	}

	existingSlugs, err := s.posts.ListSlugs(ctx)
	if err != nil {
		return nil, err
	}
	tagCache, err := s.snapshotTags(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		TotalFiles: summary.TotalFiles,
		Errors:     append([]string{}, summary.Errors...),
	}
	for _, parsed := range summary.Posts {
		normalized := markdown.NormalizePost(parsed)
		valid, violations := markdown.ValidatePost(normalized)
		if !valid {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", parsed.OriginalPath, strings.Join(violations, "; ")))
			continue
		}
		existingID, exists := existingSlugs[normalized.Slug]
		if exists && !opts.OverwriteExisting {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Slug %q already exists (skipped)", parsed.OriginalPath, normalized.Slug))
			result.Skipped++
			continue
		}
		var post *model.Post
		if exists {
			post, err = s.overwrite(ctx, existingID, normalized)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", parsed.OriginalPath, err))
				result.Skipped++
				continue
			}
			result.Overwritten++
		} else {
			post = postFromParsed(normalized)
			if err := s.posts.Create(ctx, post); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", parsed.OriginalPath, err))
				result.Skipped++
				continue
			}
			existingSlugs[normalized.Slug] = post.ID
			result.Imported++
		}
		s.attachImportTags(ctx, post.ID, normalized, tagCache, opts, result)
	}
	logutil.GetLogger(ctx).Info("import finished",
		zap.String("filename", filename),
		zap.Int("total", result.TotalFiles),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("overwritten", result.Overwritten))
	return result, nil
}

// parseUpload accepts either a ZIP archive or a single markdown file.
func (s *ImportService) parseUpload(filename string, data []byte) (*markdown.ImportSummary, error) {
	if len(data) == 0 {
		return nil, appErr.ErrInvalidFile
	}
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".zip":
		if reasons := archive.Validate(data, filename); len(reasons) > 0 {
			return nil, fmt.Errorf("%w: %s", appErr.ErrInvalidFile, strings.Join(reasons, "; "))
		}
		parsed, err := archive.Parse(data)
		if err != nil {
			return nil, err
		}
		summary := markdown.ProcessFiles(parsed.Files)
		summary.Errors = append(parsed.Errors, summary.Errors...)
		return &summary, nil
	case ".md", ".markdown":
		fm, body := markdown.ParseFrontMatter(string(data))
		summary := markdown.ProcessFiles([]markdown.ParsedFile{{
			Filename:     path.Base(filename),
			Content:      string(data),
			FrontMatter:  fm,
			Body:         body,
			RelativePath: filename,
			FolderPath:   path.Dir(filename),
		}})
		return &summary, nil
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", appErr.ErrInvalidFile, ext)
	}
}

func (s *ImportService) snapshotTags(ctx context.Context) (map[string]*model.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[string]*model.Tag, len(tags))
	for i := range tags {
		cache[strings.ToLower(tags[i].Name)] = &tags[i]
	}
	return cache, nil
}

func (s *ImportService) overwrite(ctx context.Context, postID string, parsed markdown.ParsedPost) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	post.Title = parsed.Title
	post.Content = parsed.Content
	post.Excerpt = parsed.Excerpt
	post.Type = string(parsed.Type)
	post.Status = string(parsed.Status)
	post.Language = parsed.Language
	// Overwriting keeps the record's original creation date.
	post.UpdatedAt = dateutil.NowISO()
	if post.Status == string(markdown.StatusPublished) && post.PublishedAt == "" {
		post.PublishedAt = post.CreatedAt
	}
	post.Mtime = now.Unix()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// attachImportTags links the post's tags; a tag failure is recorded
// but never fails the post.
func (s *ImportService) attachImportTags(ctx context.Context, postID string, parsed markdown.ParsedPost, cache map[string]*model.Tag, opts ImportOptions, result *ImportResult) {
	if len(parsed.Tags) == 0 {
		return
	}
	tagIDs := make([]string, 0, len(parsed.Tags))
	for _, name := range parsed.Tags {
		key := strings.ToLower(name)
		if tag, ok := cache[key]; ok {
			tagIDs = append(tagIDs, tag.ID)
			continue
		}
		if !opts.CreateMissingTags {
			continue
		}
		tag, err := s.tags.Ensure(ctx, name)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: tag %q: %v", parsed.OriginalPath, name, err))
			continue
		}
		cache[key] = tag
		result.NewTags++
		tagIDs = append(tagIDs, tag.ID)
	}
	if len(tagIDs) == 0 {
		return
	}
	if err := s.postTags.ReplaceForPost(ctx, postID, tagIDs); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: attach tags: %v", parsed.OriginalPath, err))
	}
}

func postFromParsed(parsed markdown.ParsedPost) *model.Post {
	now := time.Now()
	post := &model.Post{
		ID:        newID(),
		Title:     parsed.Title,
		Content:   parsed.Content,
		Excerpt:   parsed.Excerpt,
		Slug:      parsed.Slug,
		Type:      string(parsed.Type),
		Status:    string(parsed.Status),
		Language:  parsed.Language,
		CreatedAt: parsed.CreatedAt,
		UpdatedAt: updatedOrCreated(parsed),
		Ctime:     now.Unix(),
		Mtime:     now.Unix(),
	}
	if post.CreatedAt == "" {
		post.CreatedAt = dateutil.NowISO()
	}
	if post.Status == string(markdown.StatusPublished) {
		post.PublishedAt = post.CreatedAt
	}
	return post
}

func updatedOrCreated(parsed markdown.ParsedPost) string {
	if parsed.UpdatedAt != "" {
		return parsed.UpdatedAt
	}
	if parsed.CreatedAt != "" {
		return parsed.CreatedAt
	}
	return dateutil.NowISO()
}
