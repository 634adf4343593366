// Package pagination provides page-number math for client-side result views.
package pagination

// TotalPages returns ceil(count/pageSize), or zero when there is nothing to page.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage keeps a 1-based page inside [1, totalPages]; an empty result
// set still reports page 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Bounds returns the half-open slice range [start, end) for a 1-based page.
func Bounds(page, pageSize, count int) (int, int) {
	if count <= 0 || pageSize <= 0 || page < 1 {
		return 0, 0
	}
	start := (page - 1) * pageSize
	if start >= count {
		return count, count
	}
	end := start + pageSize
	if end > count {
		end = count
	}
	return start, end
}
