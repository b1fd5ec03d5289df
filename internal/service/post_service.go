package service

import (
	"context"
	"time"

	"github.com/xxxsen/mblog/internal/lang"
	"github.com/xxxsen/mblog/internal/markdown"
	"github.com/xxxsen/mblog/internal/model"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
	"github.com/xxxsen/mblog/internal/pkg/dateutil"
	"github.com/xxxsen/mblog/internal/repo"
	"github.com/xxxsen/mblog/internal/slugify"
)

type PostInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	Slug     string   `json:"slug"`
	Type     string   `json:"type"`
	Status   string   `json:"status"`
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

type PostService struct {
	posts    *repo.PostRepo
	postTags *repo.PostTagRepo
	tags     *TagService
}

func NewPostService(posts *repo.PostRepo, postTags *repo.PostTagRepo, tags *TagService) *PostService {
	return &PostService{posts: posts, postTags: postTags, tags: tags}
}

func (s *PostService) Create(ctx context.Context, input PostInput) (*model.Post, error) {
	if input.Content == "" {
		return nil, appErr.ErrInvalid
	}
	postType := input.Type
	if postType != string(markdown.TypeNote) {
		postType = string(markdown.TypeArticle)
	}
	status := input.Status
	if status != string(markdown.StatusDraft) {
		status = string(markdown.StatusPublished)
	}
	language := input.Language
	if !lang.IsSupported(lang.Language(language)) {
		language = string(lang.Auto)
	}
	slug, err := resolveSlug(input, postType)
	if err != nil {
		return nil, err
	}
	excerpt := input.Excerpt
	if excerpt == "" && postType == string(markdown.TypeArticle) {
		excerpt = slugify.GenerateExcerpt(input.Content, slugify.DefaultExcerptLength)
	}
	now := time.Now()
	post := &model.Post{
		ID:        newID(),
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   excerpt,
		Slug:      slug,
		Type:      postType,
		Status:    status,
		Language:  language,
		CreatedAt: dateutil.ToISO(now),
		UpdatedAt: dateutil.ToISO(now),
		Ctime:     now.Unix(),
		Mtime:     now.Unix(),
	}
	if status == string(markdown.StatusPublished) {
		post.PublishedAt = dateutil.ToISO(now)
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, post, input.Tags); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, postID string, input PostInput) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if input.Content == "" {
		return nil, appErr.ErrInvalid
	}
	postType := input.Type
	if postType != string(markdown.TypeNote) {
		postType = string(markdown.TypeArticle)
	}
	status := input.Status
	if status != string(markdown.StatusDraft) {
		status = string(markdown.StatusPublished)
	}
	slug := input.Slug
	if slug == "" {
		slug = post.Slug
	}
	if !slugify.IsValidSlug(slug) && !slugify.IsValidNoteSlug(slug) {
		return nil, appErr.ErrInvalid
	}
	now := time.Now()
	post.Title = input.Title
	post.Content = input.Content
	post.Excerpt = input.Excerpt
	if post.Excerpt == "" && postType == string(markdown.TypeArticle) {
		post.Excerpt = slugify.GenerateExcerpt(input.Content, slugify.DefaultExcerptLength)
	}
	post.Slug = slug
	post.Type = postType
	if lang.IsSupported(lang.Language(input.Language)) {
		post.Language = input.Language
	}
	if status == string(markdown.StatusPublished) && post.Status != string(markdown.StatusPublished) {
		post.PublishedAt = dateutil.ToISO(now)
	}
	post.Status = status
	post.UpdatedAt = dateutil.ToISO(now)
	post.Mtime = now.Unix()
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	if input.Tags != nil {
		if err := s.attachTags(ctx, post, input.Tags); err != nil {
			return nil, err
		}
	} else {
		names, err := s.postTags.ListTagNamesByPost(ctx, post.ID)
		if err != nil {
			return nil, err
		}
		post.Tags = names
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, postID string) error {
	if err := s.postTags.DeleteByPost(ctx, postID); err != nil {
		return err
	}
	return s.posts.Delete(ctx, postID)
}

func (s *PostService) Get(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.withTags(ctx, post)
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.withTags(ctx, post)
}

func (s *PostService) List(ctx context.Context, filter repo.PostFilter) ([]model.Post, int, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}
	names, err := s.postTags.ListTagNamesByPosts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		posts[i].Tags = names[posts[i].ID]
	}
	return posts, total, nil
}

// Stats aggregates post counts for the public stats endpoint.
type Stats struct {
	Posts     int `json:"posts"`
	Articles  int `json:"articles"`
	Notes     int `json:"notes"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
	Tags      int `json:"tags"`
}

func (s *PostService) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error
	if stats.Posts, err = s.posts.Count(ctx, repo.PostFilter{}); err != nil {
		return nil, err
	}
	if stats.Articles, err = s.posts.Count(ctx, repo.PostFilter{Type: string(markdown.TypeArticle)}); err != nil {
		return nil, err
	}
	if stats.Notes, err = s.posts.Count(ctx, repo.PostFilter{Type: string(markdown.TypeNote)}); err != nil {
		return nil, err
	}
	if stats.Published, err = s.posts.Count(ctx, repo.PostFilter{Status: string(markdown.StatusPublished)}); err != nil {
		return nil, err
	}
	if stats.Drafts, err = s.posts.Count(ctx, repo.PostFilter{Status: string(markdown.StatusDraft)}); err != nil {
		return nil, err
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.Tags = len(tags)
	return stats, nil
}

func (s *PostService) withTags(ctx context.Context, post *model.Post) (*model.Post, error) {
	names, err := s.postTags.ListTagNamesByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Tags = names
	return post, nil
}

func (s *PostService) attachTags(ctx context.Context, post *model.Post, names []string) error {
	tagIDs := make([]string, 0, len(names))
	attached := make([]string, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.Ensure(ctx, name)
		if err != nil {
			if appErr.IsInvalid(err) {
				continue
			}
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
		attached = append(attached, tag.Name)
	}
	if err := s.postTags.ReplaceForPost(ctx, post.ID, tagIDs); err != nil {
		return err
	}
	post.Tags = attached
	return nil
}

func resolveSlug(input PostInput, postType string) (string, error) {
	slug := input.Slug
	if slug == "" {
		if postType == string(markdown.TypeNote) {
			return slugify.NoteSlugNow(), nil
		}
		if input.Title != "" {
			slug = slugify.Generate(input.Title, lang.Language(input.Language))
		} else {
			runes := []rune(input.Content)
			if len(runes) > 50 {
				runes = runes[:50]
			}
			slug = slugify.Generate(string(runes), lang.Language(input.Language))
		}
		if len([]rune(slug)) < slugify.MinSlugLength {
			slug = slugify.FallbackSlug()
		}
		return slug, nil
	}
	if !slugify.IsValidSlug(slug) && !slugify.IsValidNoteSlug(slug) {
		return "", appErr.ErrInvalid
	}
	return slug, nil
}
