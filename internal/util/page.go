package util

// Page holds normalized pagination values.
type Page struct {
	Page     int
	PageSize int
	Offset   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParsePage clamps page and pageSize into safe bounds and derives the offset.
// Zero values fall back to page 1 / size 20; size is capped at 100.
func ParsePage(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return Page{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
