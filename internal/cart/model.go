package cart

// ItemInput is one client-sent cart line. Quantities and prices are never
// trusted; the product row is authoritative.
type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PricedProduct is the slice of a product the cart cares about.
type PricedProduct struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Price         float64  `json:"price"`
	OldPrice      *float64 `json:"oldPrice,omitempty"`
	Image         string   `json:"image"`
	Weight        *string  `json:"weight,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
	IsActive      bool     `json:"isActive"`
}

type Item struct {
	ProductID string        `json:"productId"`
	Quantity  int           `json:"quantity"`
	Product   PricedProduct `json:"product"`
}

type Cart struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"`
}

type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"itemCount"`
}

// ValidItem is one checkout-ready line with its authoritative price.
type ValidItem struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}
