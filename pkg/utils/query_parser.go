package utils

import (
	"net/url"
	"strconv"
	"strings"

	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/types"
)

// ParseFilterFromQuery разбирает общие параметры списка:
// ?search=&type=&active_only=true&filter[center_id]=3&limit=10&offset=0 (или page=2).
func ParseFilterFromQuery(values url.Values) types.Filter {
	filter := types.Filter{
		Search: strings.TrimSpace(values.Get("search")),
		Type:   strings.TrimSpace(values.Get("type")),
		Filter: make(map[string]interface{}),
		Limit:  constants.DefaultListLimit,
	}

	for _, key := range []string{"active_only", "published_only"} {
		if v, err := strconv.ParseBool(values.Get(key)); err == nil && v {
			filter.ActiveOnly = true
		}
	}

	for key, vals := range values {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(vals) > 0 {
			filter.Filter[key[7:len(key)-1]] = ParseScalar(vals[0])
		}
	}

	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l > 0 {
		filter.Limit = min(l, constants.MaxListLimit)
		filter.WithPagination = true
	}
	if o, err := strconv.Atoi(values.Get("offset")); err == nil && o >= 0 {
		filter.Offset = o
		filter.WithPagination = true
	} else if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		filter.Offset = (p - 1) * filter.Limit
		filter.WithPagination = true
	}
	return filter
}

// ParseScalar - целое число, если строка на него похожа, иначе сама строка.
func ParseScalar(s string) interface{} {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
