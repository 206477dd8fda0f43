package models

import (
	"net/url"
	"strconv"
)

const (
	paginationMargin = 2
	paginationRange  = 3
)

type Pagination struct {
	Page     int
	Pages    int
	Items    []PageItem
	PrevURL  string
	NextURL  string
	Previous bool
	Next     bool
}

// PageItem is either a link to a page or a gap.
type PageItem struct {
	Index   int
	Label   string
	URL     string
	Current bool
	Gap     bool
}

// NewPagination builds the page control for a list at page out of pages.
// The first and last paginationMargin pages are always linked, as well as a
// window of paginationRange pages around the current one. Skipped pages
// collapse into a single gap. Links keep the other query parameters of base.
func NewPagination(path string, base url.Values, page int, pages int) Pagination {
	p := Pagination{
		Page:  page,
		Pages: pages,
	}
	if pages <= 1 {
		return p
	}

	pageURL := func(i int) string {
		q := url.Values{}
		for k, v := range base {
			q[k] = v
		}
		q.Del("page")
		q.Del("modal")
		if i > 0 {
			q.Set("page", strconv.Itoa(i))
		}
		if len(q) == 0 {
			return path
		}
		return path + "?" + q.Encode()
	}

	start := page - paginationRange/2
	end := start + paginationRange - 1
	if start < 0 {
		end -= start
		start = 0
	}
	if end > pages-1 {
		start -= end - (pages - 1)
		end = pages - 1
		start = max(start, 0)
	}

	for i := range pages {
		visible := i < paginationMargin || i >= pages-paginationMargin || (i >= start && i <= end)
		if !visible {
			if n := len(p.Items); n == 0 || !p.Items[n-1].Gap {
				p.Items = append(p.Items, PageItem{Label: "…", Gap: true})
			}
			continue
		}
		p.Items = append(p.Items, PageItem{
			Index:   i,
			Label:   strconv.Itoa(i + 1),
			URL:     pageURL(i),
			Current: i == page,
		})
	}

	if page > 0 {
		p.Previous = true
		p.PrevURL = pageURL(page - 1)
	}
	if page+1 < pages {
		p.Next = true
		p.NextURL = pageURL(page + 1)
	}
	return p
}
