package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// pageMeta is the pagination envelope attached to every list response.
type pageMeta struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PerPage  int `json:"perPage"`
	LastPage int `json:"lastPage"`
}

func newPageMeta(total, page, perPage int) pageMeta {
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return pageMeta{Total: total, Page: page, PerPage: perPage, LastPage: last}
}

// pageParams reads pagination query parameters, falling back to page 1 /
// ten items and capping the page size at 100.
func pageParams(c echo.Context, pageKey, sizeKey string) (page, size int) {
	page = queryInt(c, pageKey, 1)
	size = queryInt(c, sizeKey, 10)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func queryInt(c echo.Context, key string, def int) int {
	v := c.QueryParam(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// pathID parses the numeric :id parameter. Routes using it are wrapped in
// ValidateNumericID, so a parse failure here means a routing mistake, not
// client input.
func pathID(c echo.Context) uint64 {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return id
}
