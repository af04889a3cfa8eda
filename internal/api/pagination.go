package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/config"
)

// Page is the list response envelope: total count plus links to the
// neighboring pages.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

type pageParams struct {
	number int
	limit  int
}

func (p pageParams) offset() int {
	return (p.number - 1) * p.limit
}

// parsePageParams reads page/limit query parameters, clamping the limit to
// the configured maximum.
func parsePageParams(c *gin.Context, cfg *config.Config) pageParams {
	params := pageParams{number: 1, limit: cfg.PageSize}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		params.number = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		params.limit = v
		if params.limit > cfg.PageSizeMax {
			params.limit = cfg.PageSizeMax
		}
	}
	return params
}

// newPage builds the envelope, deriving next/previous links from the
// request URL.
func newPage(c *gin.Context, count int64, results interface{}, params pageParams) Page {
	page := Page{Count: count, Results: results}

	if int64(params.offset()+params.limit) < count {
		page.Next = pageLink(c.Request.URL, params.number+1)
	}
	if params.number > 1 {
		page.Previous = pageLink(c.Request.URL, params.number-1)
	}
	return page
}

func pageLink(u *url.URL, number int) *string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(number))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
