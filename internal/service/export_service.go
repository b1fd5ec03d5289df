package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mblog/internal/archive"
	"github.com/xxxsen/mblog/internal/filestore"
	"github.com/xxxsen/mblog/internal/markdown"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
	"github.com/xxxsen/mblog/internal/repo"
)

// maxExportPosts bounds a single bulk export.
const maxExportPosts = 1000

// ExportPrefix is where generated archives live in the file store; the
// cleanup job scans this prefix.
const ExportPrefix = "exports/"

type ExportOptions struct {
	Types  []string `json:"types"`
	Status string   `json:"status"`
}

type ExportService struct {
	posts    *repo.PostRepo
	postTags *repo.PostTagRepo
	store    filestore.Store
}

func NewExportService(posts *repo.PostRepo, postTags *repo.PostTagRepo, store filestore.Store) *ExportService {
	return &ExportService{posts: posts, postTags: postTags, store: store}
}

// ExportZip builds the dated archive, persists a copy in the file
// store and returns the bytes plus the download filename.
func (s *ExportService) ExportZip(ctx context.Context, opts ExportOptions) ([]byte, string, error) {
	posts, err := s.collect(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	data, err := archive.BuildExportZip(posts)
	if err != nil {
		return nil, "", err
	}
	filename := exportFilename(opts)
	key := ExportPrefix + filename
	if err := s.store.Save(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		logutil.GetLogger(ctx).Warn("persist export archive failed", zap.String("key", key), zap.Error(err))
	}
	logutil.GetLogger(ctx).Info("export finished",
		zap.String("filename", filename), zap.Int("posts", len(posts)), zap.Int("bytes", len(data)))
	return data, filename, nil
}

// ExportJSON returns the same selection as a typed payload instead of
// an archive.
func (s *ExportService) ExportJSON(ctx context.Context, opts ExportOptions) ([]markdown.ExportPost, error) {
	return s.collect(ctx, opts)
}

func (s *ExportService) collect(ctx context.Context, opts ExportOptions) ([]markdown.ExportPost, error) {
	types := opts.Types
	if len(types) == 0 {
		types = []string{string(markdown.TypeArticle), string(markdown.TypeNote)}
	}
	selected := make([]markdown.ExportPost, 0)
	for _, postType := range types {
		if postType != string(markdown.TypeArticle) && postType != string(markdown.TypeNote) {
			return nil, fmt.Errorf("%w: unknown post type %s", appErr.ErrInvalid, postType)
		}
		posts, err := s.posts.List(ctx, repo.PostFilter{
			Type:   postType,
			Status: opts.Status,
			Limit:  maxExportPosts,
		})
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(posts))
		for _, post := range posts {
			ids = append(ids, post.ID)
		}
		tagNames, err := s.postTags.ListTagNamesByPosts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, post := range posts {
			selected = append(selected, markdown.ExportPost{
				ID:        post.ID,
				Title:     post.Title,
				Content:   post.Content,
				Excerpt:   post.Excerpt,
				Slug:      post.Slug,
				Type:      markdown.PostType(post.Type),
				Status:    post.Status,
				Language:  post.Language,
				Tags:      tagNames[post.ID],
				CreatedAt: post.CreatedAt,
				UpdatedAt: post.UpdatedAt,
			})
		}
	}
	if len(selected) > maxExportPosts {
		selected = selected[:maxExportPosts]
	}
	return selected, nil
}

func exportFilename(opts ExportOptions) string {
	name := "blog-export"
	if len(opts.Types) == 1 {
		name += "-" + opts.Types[0] + "s"
	}
	if opts.Status != "" {
		name += "-" + opts.Status
	}
	return fmt.Sprintf("%s-%s.zip", name, time.Now().UTC().Format("2006-01-02"))
}
