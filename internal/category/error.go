package category

import "errors"

var (
	ErrNotFound    = errors.New("category not found")
	ErrSlugExists  = errors.New("category with this slug already exists")
	ErrHasProducts = errors.New("category has products and cannot be deleted")
)
