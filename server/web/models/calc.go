package models

// PageCount returns the number of pages needed for total items.
func PageCount(total int, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage limits a zero-based page index to the pages that exist.
func ClampPage(page int, pageCount int) int {
	if page >= pageCount {
		page = pageCount - 1
	}
	if page < 0 {
		return 0
	}
	return page
}

// PageAfterDelete returns the page to show after deleting one item from page,
// which held itemsOnPage items before the delete. An emptied page other than
// the first falls back to its predecessor.
func PageAfterDelete(page int, itemsOnPage int) int {
	if page > 0 && itemsOnPage <= 1 {
		return page - 1
	}
	return page
}
