package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

const (
	DefaultPage     = 1
	DefaultPageSize = 20
)

// ListParams holds the common pagination and sorting query parameters.
type ListParams struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Normalize clamps page to >= 1 and page size to [1, maxPageSize].
func (p *ListParams) Normalize(maxPageSize int) {
	p.Page = ClampPage(p.Page)
	p.PageSize = ClampLimit(p.PageSize, DefaultPageSize, maxPageSize)
}

// ClampPage returns page, or the first page when page is not positive.
func ClampPage(page int) int {
	if page < 1 {
		return DefaultPage
	}
	return page
}

// ClampLimit returns limit bounded to [1, max].
// A non-positive limit falls back to def (itself bounded by max).
func ClampLimit(limit, def, max int) int {
	if max < 1 {
		max = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
