package cart

import (
	"context"
	"fmt"

	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Quote(ctx context.Context, items []ItemInput) (*Cart, error)
	Validate(ctx context.Context, items []ItemInput) ([]ValidItem, []httpapi.FieldError, error)
	GetTotals(ctx context.Context, items []ItemInput) (Totals, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func productIDs(items []ItemInput) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Quote builds the cart view: unknown or inactive products are dropped,
// quantities clamped to stock, lines with nothing left removed.
func (s *service) Quote(ctx context.Context, items []ItemInput) (*Cart, error) {
	result := &Cart{Items: []Item{}}
	if len(items) == 0 {
		return result, nil
	}

	products, err := s.repo.GetByIDs(ctx, productIDs(items))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch cart products", zap.Error(err))
		return nil, err
	}

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok || !p.IsActive {
			continue
		}

		qty := effectiveQuantity(item.Quantity, p.StockQuantity)
		if qty == 0 {
			continue
		}

		result.Items = append(result.Items, Item{
			ProductID: p.ID,
			Quantity:  qty,
			Product:   p,
		})
		result.Total += p.Price * float64(qty)
	}

	return result, nil
}

// Validate is the strict checkout-side check: every line must reference an
// active product with enough stock, otherwise the whole cart is rejected.
func (s *service) Validate(ctx context.Context, items []ItemInput) ([]ValidItem, []httpapi.FieldError, error) {
	if len(items) == 0 {
		return nil, []httpapi.FieldError{{Message: "Cart is empty"}}, nil
	}

	products, err := s.repo.GetByIDs(ctx, productIDs(items))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch cart products", zap.Error(err))
		return nil, nil, err
	}

	var lineErrors []httpapi.FieldError
	var validItems []ValidItem

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			lineErrors = append(lineErrors, httpapi.FieldError{
				ProductID: item.ProductID,
				Message:   "Product not found",
			})
			continue
		}

		if !p.IsActive {
			lineErrors = append(lineErrors, httpapi.FieldError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Message:     "Product is not available",
			})
			continue
		}

		if item.Quantity < 1 {
			lineErrors = append(lineErrors, httpapi.FieldError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Message:     "Quantity must be at least 1",
			})
			continue
		}

		if p.StockQuantity < item.Quantity {
			lineErrors = append(lineErrors, httpapi.FieldError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Message:     fmt.Sprintf("Insufficient stock. Available: %d", p.StockQuantity),
			})
			continue
		}

		validItems = append(validItems, ValidItem{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
		})
	}

	return validItems, lineErrors, nil
}

// GetTotals prices the cart leniently the same way Quote does.
func (s *service) GetTotals(ctx context.Context, items []ItemInput) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, nil
	}

	products, err := s.repo.GetByIDs(ctx, productIDs(items))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch cart products", zap.Error(err))
		return Totals{}, err
	}

	var subtotal float64
	var itemCount int

	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok || !p.IsActive {
			continue
		}

		qty := effectiveQuantity(item.Quantity, p.StockQuantity)
		if qty == 0 {
			continue
		}

		subtotal += p.Price * float64(qty)
		itemCount += qty
	}

	return ComputeTotals(subtotal, 0, itemCount), nil
}
