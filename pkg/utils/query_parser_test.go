package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"rheuma-portal/pkg/constants"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, constants.DefaultListLimit, f.Limit)
	assert.False(t, f.WithPagination)
	assert.False(t, f.ActiveOnly)
	assert.Empty(t, f.Filter)
}

func TestParseFilterFromQuery_Full(t *testing.T) {
	q, _ := url.ParseQuery("search=+конгресс+&type=event&published_only=true&filter[center_id]=3&filter[region]=Ташкент&limit=10&page=3")
	f := ParseFilterFromQuery(q)

	assert.Equal(t, "конгресс", f.Search)
	assert.Equal(t, "event", f.Type)
	assert.True(t, f.ActiveOnly)
	assert.Equal(t, int64(3), f.Filter["center_id"])
	assert.Equal(t, "Ташкент", f.Filter["region"])
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)
	assert.True(t, f.WithPagination)
}

func TestParseFilterFromQuery_LimitCapped(t *testing.T) {
	q, _ := url.ParseQuery("limit=100000&offset=5")
	f := ParseFilterFromQuery(q)

	assert.Equal(t, constants.MaxListLimit, f.Limit)
	assert.Equal(t, 5, f.Offset)
}
