package service

import (
	"context"
	"strings"
	"time"

	"github.com/xxxsen/mblog/internal/lang"
	"github.com/xxxsen/mblog/internal/model"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
	"github.com/xxxsen/mblog/internal/repo"
	"github.com/xxxsen/mblog/internal/slugify"
)

type TagService struct {
	tags     *repo.TagRepo
	postTags *repo.PostTagRepo
}

func NewTagService(tags *repo.TagRepo, postTags *repo.PostTagRepo) *TagService {
	return &TagService{tags: tags, postTags: postTags}
}

func (s *TagService) Create(ctx context.Context, name, description string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	tag := &model.Tag{
		ID:          newID(),
		Name:        name,
		Slug:        slugify.Generate(name, lang.Auto),
		Description: description,
		Ctime:       time.Now().Unix(),
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, tagID, name, description string) (*model.Tag, error) {
	tag, err := s.tags.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	tag.Name = name
	tag.Slug = slugify.Generate(name, lang.Auto)
	tag.Description = description
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, tagID string) error {
	if err := s.postTags.DeleteByTag(ctx, tagID); err != nil {
		return err
	}
	return s.tags.Delete(ctx, tagID)
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) ListWithCounts(ctx context.Context) ([]model.TagWithCount, error) {
	return s.tags.ListWithCounts(ctx)
}

func (s *TagService) GetByID(ctx context.Context, tagID string) (*model.Tag, error) {
	return s.tags.GetByID(ctx, tagID)
}

// Ensure returns the tag named name, creating it when missing. A
// concurrent create surfacing as a unique conflict is resolved by one
// re-query.
func (s *TagService) Ensure(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	tag, err := s.tags.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	created, err := s.Create(ctx, name, "")
	if err == nil {
		return created, nil
	}
	if appErr.IsConflict(err) {
		return s.tags.GetByName(ctx, name)
	}
	return nil, err
}
