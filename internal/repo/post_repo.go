package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/mblog/internal/model"
	"github.com/xxxsen/mblog/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
)

var postColumns = []string{
	"id", "title", "content", "excerpt", "slug", "type", "status", "language",
	"created_at", "updated_at", "published_at", "ctime", "mtime",
}

// PostFilter narrows List/Count; zero values mean no constraint.
type PostFilter struct {
	Type   string
	Status string
	Search string
	TagID  string
	Limit  int
	Offset int
}

type PostRepo struct {
	db *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Create(ctx context.Context, post *model.Post) error {
	data := map[string]interface{}{
		"id":           post.ID,
		"title":        post.Title,
		"content":      post.Content,
		"excerpt":      post.Excerpt,
		"slug":         post.Slug,
		"type":         post.Type,
		"status":       post.Status,
		"language":     post.Language,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
		"published_at": nullableText(post.PublishedAt),
		"ctime":        post.Ctime,
		"mtime":        post.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("posts", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostRepo) Update(ctx context.Context, post *model.Post) error {
	where := map[string]interface{}{"id": post.ID}
	update := map[string]interface{}{
		"title":        post.Title,
		"content":      post.Content,
		"excerpt":      post.Excerpt,
		"slug":         post.Slug,
		"type":         post.Type,
		"status":       post.Status,
		"language":     post.Language,
		"created_at":   post.CreatedAt,
		"updated_at":   post.UpdatedAt,
		"published_at": nullableText(post.PublishedAt),
		"mtime":        post.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("posts", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, postID string) error {
	sqlStr, args, err := builder.BuildDelete("posts", map[string]interface{}{"id": postID})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	return r.getOne(ctx, map[string]interface{}{"id": postID})
}

func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return r.getOne(ctx, map[string]interface{}{"slug": slug})
}

func (r *PostRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Post, error) {
	sqlStr, args, err := builder.BuildSelect("posts", where, postColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	post, err := scanPost(rows)
	if err != nil {
		return nil, err
	}
	return post, rows.Err()
}

func (r *PostRepo) List(ctx context.Context, filter PostFilter) ([]model.Post, error) {
	sqlStr := "SELECT p.id, p.title, p.content, p.excerpt, p.slug, p.type, p.status, p.language, " +
		"p.created_at, p.updated_at, p.published_at, p.ctime, p.mtime FROM posts p"
	args := make([]interface{}, 0, 6)
	if filter.TagID != "" {
		sqlStr += " JOIN post_tags pt ON pt.post_id = p.id AND pt.tag_id = ?"
		args = append(args, filter.TagID)
	}
	sqlStr += " WHERE 1=1"
	if filter.Type != "" {
		sqlStr += " AND p.type = ?"
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		sqlStr += " AND p.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		sqlStr += " AND (p.title ILIKE ? OR p.content ILIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	sqlStr += " ORDER BY p.created_at DESC"
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		sqlStr += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, offset)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	posts := make([]model.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *PostRepo) Count(ctx context.Context, filter PostFilter) (int, error) {
	sqlStr := "SELECT COUNT(*) FROM posts p"
	args := make([]interface{}, 0, 4)
	if filter.TagID != "" {
		sqlStr += " JOIN post_tags pt ON pt.post_id = p.id AND pt.tag_id = ?"
		args = append(args, filter.TagID)
	}
	sqlStr += " WHERE 1=1"
	if filter.Type != "" {
		sqlStr += " AND p.type = ?"
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		sqlStr += " AND p.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		sqlStr += " AND (p.title ILIKE ? OR p.content ILIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListSlugs returns every stored slug; import conflict checks snapshot
// this once per call.
func (r *PostRepo) ListSlugs(ctx context.Context) (map[string]string, error) {
	sqlStr, args := dbutil.Finalize("SELECT id, slug FROM posts", nil)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slugs := make(map[string]string)
	for rows.Next() {
		var id, slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, err
		}
		slugs[slug] = id
	}
	return slugs, rows.Err()
}

func scanPost(rows *sql.Rows) (*model.Post, error) {
	var post model.Post
	var publishedAt sql.NullString
	if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Excerpt, &post.Slug,
		&post.Type, &post.Status, &post.Language, &post.CreatedAt, &post.UpdatedAt,
		&publishedAt, &post.Ctime, &post.Mtime); err != nil {
		return nil, err
	}
	post.PublishedAt = publishedAt.String
	return &post, nil
}

func nullableText(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
