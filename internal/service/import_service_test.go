package service

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mblog/internal/model"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
)

type fakePostStore struct {
	byID  map[string]*model.Post
	slugs map[string]string
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{byID: make(map[string]*model.Post), slugs: make(map[string]string)}
}

func (s *fakePostStore) ListSlugs(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(s.slugs))
	for slug, id := range s.slugs {
		out[slug] = id
	}
	return out, nil
}

func (s *fakePostStore) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	post, ok := s.byID[postID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *fakePostStore) Create(ctx context.Context, post *model.Post) error {
	if _, ok := s.slugs[post.Slug]; ok {
		return appErr.ErrConflict
	}
	copied := *post
	s.byID[post.ID] = &copied
	s.slugs[post.Slug] = post.ID
	return nil
}

func (s *fakePostStore) Update(ctx context.Context, post *model.Post) error {
	if _, ok := s.byID[post.ID]; !ok {
		return appErr.ErrNotFound
	}
	copied := *post
	s.byID[post.ID] = &copied
	return nil
}

type fakeTagStore struct {
	tags map[string]*model.Tag
}

func newFakeTagStore(names ...string) *fakeTagStore {
	s := &fakeTagStore{tags: make(map[string]*model.Tag)}
	for i, name := range names {
		s.tags[strings.ToLower(name)] = &model.Tag{ID: name + "-id", Name: name, Ctime: int64(i)}
	}
	return s
}

func (s *fakeTagStore) List(ctx context.Context) ([]model.Tag, error) {
	out := make([]model.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		out = append(out, *tag)
	}
	return out, nil
}

func (s *fakeTagStore) Ensure(ctx context.Context, name string) (*model.Tag, error) {
	key := strings.ToLower(name)
	if tag, ok := s.tags[key]; ok {
		return tag, nil
	}
	tag := &model.Tag{ID: newID(), Name: name, Ctime: time.Now().Unix()}
	s.tags[key] = tag
	return tag, nil
}

type fakePostTagStore struct {
	byPost map[string][]string
}

func newFakePostTagStore() *fakePostTagStore {
	return &fakePostTagStore{byPost: make(map[string][]string)}
}

func (s *fakePostTagStore) ReplaceForPost(ctx context.Context, postID string, tagIDs []string) error {
	s.byPost[postID] = tagIDs
	return nil
}

func importZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf.Bytes()
}

func TestImportFreshPosts(t *testing.T) {
	posts := newFakePostStore()
	tags := newFakeTagStore()
	postTags := newFakePostTagStore()
	svc := NewImportService(posts, tags, postTags)

	data := importZip(t, map[string]string{
		"hello.md": "---\ntitle: Hello\ntype: article\ntags: [go, blog]\ndate: 2023-05-10\n---\nsome article body",
		"note.md":  "---\ntype: note\nslug: 20230601-120000\n---\nquick note",
	})
	result, err := svc.Import(context.Background(), "batch.zip", data, ImportOptions{CreateMissingTags: true})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalFiles)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 0, result.Skipped)
	require.Equal(t, 0, result.Overwritten)
	require.Equal(t, 2, result.NewTags)

	require.Len(t, posts.byID, 2)
	articleID := posts.slugs["hello"]
	article := posts.byID[articleID]
	require.Equal(t, "Hello", article.Title)
	require.Equal(t, "article", article.Type)
	require.Equal(t, "2023-05-10T00:00:00Z", article.CreatedAt)
	require.Equal(t, "published", article.Status)
	require.NotEmpty(t, article.PublishedAt)
	require.Len(t, postTags.byPost[articleID], 2)
}

func TestImportSkipsExistingSlug(t *testing.T) {
	posts := newFakePostStore()
	existing := &model.Post{ID: "p1", Slug: "hello", Content: "original"}
	require.NoError(t, posts.Create(context.Background(), existing))
	svc := NewImportService(posts, newFakeTagStore(), newFakePostTagStore())

	data := importZip(t, map[string]string{
		"hello.md": "---\ntitle: Hello\nslug: hello\n---\nnew body",
	})
	result, err := svc.Import(context.Background(), "batch.zip", data, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.Equal(t, "original", posts.byID["p1"].Content)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], `Slug "hello" already exists (skipped)`)
}

func TestImportOverwritesExistingSlug(t *testing.T) {
	posts := newFakePostStore()
	existing := &model.Post{ID: "p1", Slug: "hello", Content: "original", Status: "published", CreatedAt: "2020-01-01T00:00:00Z", UpdatedAt: "2020-01-01T00:00:00Z"}
	require.NoError(t, posts.Create(context.Background(), existing))
	svc := NewImportService(posts, newFakeTagStore(), newFakePostTagStore())

	data := importZip(t, map[string]string{
		"hello.md": "---\ntitle: Hello\nslug: hello\ndate: 2023-05-10\n---\nnew body",
	})
	result, err := svc.Import(context.Background(), "batch.zip", data, ImportOptions{OverwriteExisting: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.Overwritten)
	require.Equal(t, 0, result.Imported)

	updated := posts.byID["p1"]
	require.Equal(t, "new body", updated.Content)
	require.Equal(t, "2020-01-01T00:00:00Z", updated.CreatedAt)
	require.NotEqual(t, "2020-01-01T00:00:00Z", updated.UpdatedAt)
	require.NotEqual(t, "2023-05-10T00:00:00Z", updated.UpdatedAt)
}

func TestImportSkipsMissingTagsWhenDisabled(t *testing.T) {
	posts := newFakePostStore()
	tags := newFakeTagStore("known")
	postTags := newFakePostTagStore()
	svc := NewImportService(posts, tags, postTags)

	data := importZip(t, map[string]string{
		"a.md": "---\ntitle: A\nslug: post-a\ntags: [known, unknown]\n---\nbody",
	})
	result, err := svc.Import(context.Background(), "batch.zip", data, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, 0, result.NewTags)

	postID := posts.slugs["post-a"]
	require.Equal(t, []string{"known-id"}, postTags.byPost[postID])
	require.Len(t, tags.tags, 1)
}

func TestImportSkipsInvalidPost(t *testing.T) {
	posts := newFakePostStore()
	svc := NewImportService(posts, newFakeTagStore(), newFakePostTagStore())

	data := importZip(t, map[string]string{
		"bad.md": "---\ntype: article\nslug: no-title-article\n---\ntiny",
	})
	result, err := svc.Import(context.Background(), "batch.zip", data, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.NotEmpty(t, result.Errors)
	require.Contains(t, result.Errors[len(result.Errors)-1], "Articles require a title")
}

func TestImportSingleMarkdownFile(t *testing.T) {
	posts := newFakePostStore()
	svc := NewImportService(posts, newFakeTagStore(), newFakePostTagStore())

	content := "---\ntitle: Solo\nslug: solo-post\n---\nsolo body"
	result, err := svc.Import(context.Background(), "solo.md", []byte(content), ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalFiles)
	require.Equal(t, 1, result.Imported)
	require.Contains(t, posts.slugs, "solo-post")
}

func TestImportRejectsBadUploads(t *testing.T) {
	svc := NewImportService(newFakePostStore(), newFakeTagStore(), newFakePostTagStore())

	_, err := svc.Import(context.Background(), "data.txt", []byte("x"), ImportOptions{})
	require.ErrorIs(t, err, appErr.ErrInvalidFile)

	_, err = svc.Import(context.Background(), "empty.zip", nil, ImportOptions{})
	require.ErrorIs(t, err, appErr.ErrInvalidFile)

	_, err = svc.Import(context.Background(), "corrupt.zip", []byte("not a zip"), ImportOptions{})
	require.ErrorIs(t, err, appErr.ErrInvalidFile)
}

func TestPreviewAnnotatesStorageConflicts(t *testing.T) {
	posts := newFakePostStore()
	require.NoError(t, posts.Create(context.Background(), &model.Post{ID: "p1", Slug: "taken"}))
	svc := NewImportService(posts, newFakeTagStore(), newFakePostTagStore())

	data := importZip(t, map[string]string{
		"a.md": "---\ntitle: Taken\nslug: taken\n---\nbody",
		"b.md": "---\ntitle: Free\nslug: free-slug\n---\nbody",
	})
	preview, err := svc.Preview(context.Background(), "batch.zip", data)
	require.NoError(t, err)
	require.Equal(t, 2, preview.TotalFiles)
	require.Equal(t, 2, preview.ValidPosts)
	require.Len(t, preview.Conflicts, 1)
	require.Contains(t, preview.Conflicts[0], "Slug already exists: taken")
	require.Len(t, posts.byID, 1)
}
