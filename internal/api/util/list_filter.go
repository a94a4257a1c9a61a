package util

// ListFilter contains ordering/pagination options for list endpoints
type ListFilter struct {
	// Order by clauses parsed from order parameter
	Order []OrderClause
	// Pagination
	Page    int
	PerPage int
}

// TotalPages returns the page count for total items, 0 when pagination is off.
func (f ListFilter) TotalPages(total int) int {
	if f.PerPage <= 0 {
		return 0
	}
	return (total + f.PerPage - 1) / f.PerPage
}
