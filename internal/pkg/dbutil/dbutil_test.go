package dbutil

import (
	"testing"

	"github.com/didi/gendry/builder"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestFinalizeRebindsPlaceholders(t *testing.T) {
	sqlStr, args := Finalize("SELECT id FROM posts WHERE slug=? AND status=?", []interface{}{"s", "published"})
	require.Equal(t, "SELECT id FROM posts WHERE slug=$1 AND status=$2", sqlStr)
	require.Equal(t, []interface{}{"s", "published"}, args)
}

func TestFinalizeRewritesMySQLLimit(t *testing.T) {
	where := map[string]interface{}{
		"status": "published",
		"_limit": []uint{10, 5},
	}
	sqlStr, args, err := builder.BuildSelect("posts", where, []string{"id"})
	require.NoError(t, err)

	sqlStr, args = Finalize(sqlStr, args)
	require.Contains(t, sqlStr, "LIMIT $2 OFFSET $3")
	// gendry emits offset,count; postgres wants count first.
	require.Equal(t, []interface{}{"published", uint(5), uint(10)}, args)
}

func TestIsConflict(t *testing.T) {
	require.True(t, IsConflict(&pq.Error{Code: "23505"}))
	require.False(t, IsConflict(&pq.Error{Code: "23503"}))
	require.False(t, IsConflict(nil))
}
