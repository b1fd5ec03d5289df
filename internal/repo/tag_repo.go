package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/mblog/internal/model"
	"github.com/xxxsen/mblog/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mblog/internal/pkg/errors"
)

var tagColumns = []string{"id", "name", "slug", "description", "ctime"}

type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

func (r *TagRepo) Create(ctx context.Context, tag *model.Tag) error {
	data := map[string]interface{}{
		"id":          tag.ID,
		"name":        tag.Name,
		"slug":        tag.Slug,
		"description": tag.Description,
		"ctime":       tag.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("tags", []map[string]interface{}{data})
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

func (r *TagRepo) Update(ctx context.Context, tag *model.Tag) error {
	where := map[string]interface{}{"id": tag.ID}
	update := map[string]interface{}{
		"name":        tag.Name,
		"slug":        tag.Slug,
		"description": tag.Description,
	}
	sqlStr, args, err := builder.BuildUpdate("tags", where, update)
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

func (r *TagRepo) Delete(ctx context.Context, tagID string) error {
	sqlStr, args, err := builder.BuildDelete("tags", map[string]interface{}{"id": tagID})
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

func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	where := map[string]interface{}{"_orderby": "name asc"}
	sqlStr, args, err := builder.BuildSelect("tags", where, tagColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryTags(ctx, sqlStr, args)
}

func (r *TagRepo) GetByID(ctx context.Context, tagID string) (*model.Tag, error) {
	return r.getOne(ctx, map[string]interface{}{"id": tagID})
}

func (r *TagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	return r.getOne(ctx, map[string]interface{}{"slug": slug})
}

// GetByName matches case-insensitively; tag names keep their original
// casing but compare lowered.
func (r *TagRepo) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	sqlStr, args := dbutil.Finalize(
		"SELECT id, name, slug, description, ctime FROM tags WHERE LOWER(name) = ?",
		[]interface{}{strings.ToLower(name)},
	)
	tags, err := r.queryTags(ctx, sqlStr, args)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &tags[0], nil
}

func (r *TagRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Tag, error) {
	sqlStr, args, err := builder.BuildSelect("tags", where, tagColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	tags, err := r.queryTags(ctx, sqlStr, args)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &tags[0], nil
}

func (r *TagRepo) ListWithCounts(ctx context.Context) ([]model.TagWithCount, error) {
	sqlStr, args := dbutil.Finalize(
		"SELECT t.id, t.name, t.slug, t.description, t.ctime, COUNT(pt.post_id) AS cnt "+
			"FROM tags t LEFT JOIN post_tags pt ON pt.tag_id = t.id "+
			"GROUP BY t.id, t.name, t.slug, t.description, t.ctime ORDER BY cnt DESC, t.name ASC",
		nil,
	)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]model.TagWithCount, 0)
	for rows.Next() {
		var tag model.TagWithCount
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Description, &tag.Ctime, &tag.PostCount); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *TagRepo) queryTags(ctx context.Context, sqlStr string, args []interface{}) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]model.Tag, 0)
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Description, &tag.Ctime); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
