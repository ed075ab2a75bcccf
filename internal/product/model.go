package product

import "time"

type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   *string     `json:"description,omitempty"`
	Price         float64     `json:"price"`
	OldPrice      *float64    `json:"oldPrice,omitempty"`
	Image         string      `json:"image"`
	Weight        *string     `json:"weight,omitempty"`
	Calories      *int        `json:"calories,omitempty"`
	Proteins      *float64    `json:"proteins,omitempty"`
	Fats          *float64    `json:"fats,omitempty"`
	Carbohydrates *float64    `json:"carbohydrates,omitempty"`
	StockQuantity int         `json:"stockQuantity"`
	IsActive      bool        `json:"isActive"`
	IsBestseller  bool        `json:"isBestseller"`
	IsNew         bool        `json:"isNew"`
	CategoryID    string      `json:"categoryId"`
	Category      CategoryRef `json:"category"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type ProductInput struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	OldPrice      *float64 `json:"oldPrice"`
	Image         string   `json:"image"`
	Weight        *string  `json:"weight"`
	Calories      *int     `json:"calories"`
	Proteins      *float64 `json:"proteins"`
	Fats          *float64 `json:"fats"`
	Carbohydrates *float64 `json:"carbohydrates"`
	StockQuantity int      `json:"stockQuantity"`
	IsActive      *bool    `json:"isActive"`
	IsBestseller  bool     `json:"isBestseller"`
	IsNew         bool     `json:"isNew"`
	CategoryID    string   `json:"categoryId"`
}

// PatchInput carries the partial update fields for PATCH /products/:id.
type PatchInput struct {
	StockQuantity *int     `json:"stockQuantity"`
	IsActive      *bool    `json:"isActive"`
	IsBestseller  *bool    `json:"isBestseller"`
	IsNew         *bool    `json:"isNew"`
	Price         *float64 `json:"price"`
	OldPrice      *float64 `json:"oldPrice"`
}

func (p PatchInput) HasAnyField() bool {
	return p.StockQuantity != nil ||
		p.IsActive != nil ||
		p.IsBestseller != nil ||
		p.IsNew != nil ||
		p.Price != nil ||
		p.OldPrice != nil
}

type QueryOptions struct {
	CategorySlug *string
	MinPrice     *float64
	MaxPrice     *float64
	IsNew        *bool
	IsBestseller *bool
	Search       *string
	SortBy       string
	SortOrder    string
	Page         int
	Limit        int
}

type Featured struct {
	Bestsellers []*Product `json:"bestsellers"`
	NewProducts []*Product `json:"newProducts"`
}
