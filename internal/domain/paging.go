package domain

// Paged is a one-based page of results with totals, the shape every
// paged endpoint returns.
type Paged[T any] struct {
	Items      []T   `json:"items"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// NewPaged wraps items with the derived page count, ceil(total/pageSize).
func NewPaged[T any](items []T, totalItems int64, page, pageSize int) Paged[T] {
	totalPages := int64(0)
	if pageSize > 0 {
		totalPages = (totalItems + int64(pageSize) - 1) / int64(pageSize)
	}
	return Paged[T]{
		Items:      items,
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}
}
