package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/types"
)

func TestBuildListQuery_ActiveAndType(t *testing.T) {
	sql, args, err := buildListQuery(schema.News, types.Filter{ActiveOnly: true, Type: "event"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, `FROM news WHERE "is_published" = $1 AND "news_type" = $2`)
	assert.Contains(t, sql, `ORDER BY "order" ASC, created_at DESC, id DESC`)
	assert.Contains(t, sql, `"title_ru", "title_uz", "title_en"`)
	assert.Equal(t, []interface{}{true, "event"}, args)
}

func TestBuildListQuery_IgnoresUnknownFilters(t *testing.T) {
	filter := types.Filter{Filter: map[string]interface{}{"center_id": int64(3), "password": "x"}}
	sql, args, err := buildListQuery(schema.CenterStaff, filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, `WHERE "center_id" = $1`)
	assert.NotContains(t, sql, "password")
	assert.Equal(t, []interface{}{int64(3)}, args)
}

func TestBuildListQuery_SearchAndPagination(t *testing.T) {
	filter := types.Filter{Search: "артрит", Limit: 10, Offset: 20, WithPagination: true}
	sql, args, err := buildListQuery(schema.Diseases, filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, `("title_ru" ILIKE $1 OR "title_uz" ILIKE $2 OR "title_en" ILIKE $3)`)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.Len(t, args, 3)
	assert.Equal(t, "%артрит%", args[0])
}

func TestBuildListQuery_TypeIgnoredWithoutTypeColumn(t *testing.T) {
	sql, args, err := buildListQuery(schema.Partners, types.Filter{Type: "event"}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestBuildCountQuery(t *testing.T) {
	sql, args, err := buildCountQuery(schema.Centers, types.Filter{ActiveOnly: true}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, `SELECT COUNT(*) FROM centers WHERE "is_active" = $1`, sql)
	assert.Equal(t, []interface{}{true}, args)
}

func TestColumnsAndValues_SkipsSystemColumns(t *testing.T) {
	cols, vals := columnsAndValues(entities.Record{
		"id":         int64(7),
		"order":      int64(2),
		"title_ru":   "Устав",
		"created_at": "ignored",
	})

	assert.Equal(t, []string{`"order"`, `"title_ru"`}, cols)
	assert.Equal(t, []interface{}{int64(2), "Устав"}, vals)
}
