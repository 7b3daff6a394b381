// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live in gormrepo. Point lookups return
// (nil, nil) when no row matches; the caller decides whether absence is
// NotFound, Forbidden, or fine.
package repository

// ListParams bounds pagination and ordering for listing queries. Sort is
// a column name already whitelisted by the caller; Order is asc or desc.
type ListParams struct {
	Offset int
	Limit  int
	Sort   string
	Order  string
}
