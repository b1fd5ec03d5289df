package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/mblog/internal/pkg/dbutil"
)

type PostTagRepo struct {
	db *sql.DB
}

func NewPostTagRepo(db *sql.DB) *PostTagRepo {
	return &PostTagRepo{db: db}
}

// ReplaceForPost swaps a post's tag set atomically.
func (r *PostTagRepo) ReplaceForPost(ctx context.Context, postID string, tagIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	sqlStr, args := dbutil.Finalize("DELETE FROM post_tags WHERE post_id=?", []interface{}{postID})
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return err
	}
	if len(tagIDs) > 0 {
		rows := make([]map[string]interface{}, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			rows = append(rows, map[string]interface{}{"post_id": postID, "tag_id": tagID})
		}
		sqlStr, insertArgs, err := builder.BuildInsert("post_tags", rows)
		if err != nil {
			return err
		}
		sqlStr, insertArgs = dbutil.Finalize(sqlStr, insertArgs)
		if _, err := tx.ExecContext(ctx, sqlStr, insertArgs...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostTagRepo) ListTagNamesByPost(ctx context.Context, postID string) ([]string, error) {
	sqlStr, args := dbutil.Finalize(
		"SELECT t.name FROM tags t JOIN post_tags pt ON pt.tag_id = t.id WHERE pt.post_id=? ORDER BY t.name ASC",
		[]interface{}{postID},
	)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListTagNamesByPosts resolves tag names for a batch of posts in one
// query; export uses this to avoid one round trip per post.
func (r *PostTagRepo) ListTagNamesByPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(postIDs) == 0 {
		return result, nil
	}
	ids := make([]interface{}, 0, len(postIDs))
	placeholders := ""
	for i, id := range postIDs {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		ids = append(ids, id)
	}
	sqlStr, args := dbutil.Finalize(
		"SELECT pt.post_id, t.name FROM tags t JOIN post_tags pt ON pt.tag_id = t.id WHERE pt.post_id IN ("+placeholders+") ORDER BY t.name ASC",
		ids,
	)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var postID, name string
		if err := rows.Scan(&postID, &name); err != nil {
			return nil, err
		}
		result[postID] = append(result[postID], name)
	}
	return result, rows.Err()
}

func (r *PostTagRepo) DeleteByPost(ctx context.Context, postID string) error {
	return r.deleteBy(ctx, "post_id", postID)
}

func (r *PostTagRepo) DeleteByTag(ctx context.Context, tagID string) error {
	return r.deleteBy(ctx, "tag_id", tagID)
}

func (r *PostTagRepo) deleteBy(ctx context.Context, column, value string) error {
	sqlStr, args := dbutil.Finalize("DELETE FROM post_tags WHERE "+column+"=?", []interface{}{value})
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
