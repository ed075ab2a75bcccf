package product

import "errors"

var (
	ErrNotFound         = errors.New("product not found")
	ErrSlugExists       = errors.New("product with this slug already exists")
	ErrCategoryNotFound = errors.New("category not found")
)
