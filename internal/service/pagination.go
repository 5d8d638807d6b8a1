package service

const defaultPageSize = 20

// pagination carries normalized paging parameters and the derived offsets.
type pagination struct {
	Page       int
	Limit      int
	Offset     int
	TotalPages int
}

// paginate normalizes page and limit and derives the store offset plus the
// total page count for a result set of total rows. Non-positive pages fall
// back to 1 and non-positive limits to the default page size. No upper
// bound is enforced on page: requesting a page past the end is legal and
// simply yields an empty page alongside the computed total.
func paginate(page, limit int, total int64) pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return pagination{
		Page:       page,
		Limit:      limit,
		Offset:     (page - 1) * limit,
		TotalPages: totalPages,
	}
}
