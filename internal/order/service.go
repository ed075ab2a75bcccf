package order

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"sushiwave-be/internal/cart"
	"sushiwave-be/internal/httpapi"
	"sushiwave-be/internal/logger"
	"sushiwave-be/internal/payment"
)

const (
	defaultLimit = 10
	maxLimit     = 100

	// createAttempts bounds retries when two checkouts race for the same
	// order number. The unique index on order_number is the arbiter.
	createAttempts = 3
)

type Service interface {
	Create(ctx context.Context, userID *string, input CreateInput) (*Order, []httpapi.FieldError, error)
	Get(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, int, error)
	ListMine(ctx context.Context, userID string, page, limit int) ([]*Order, int, error)
	Cancel(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error)
	Pay(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error)
	AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*Order, error)
}

type service struct {
	repo    Repository
	carts   cart.Service
	gateway payment.Gateway
}

func NewService(repo Repository, carts cart.Service, gateway payment.Gateway) Service {
	return &service{repo: repo, carts: carts, gateway: gateway}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// Create validates the cart against live product rows, prices it server
// side and persists the order. Validation failures come back as per-line
// field errors rather than a plain error.
func (s *service) Create(ctx context.Context, userID *string, input CreateInput) (*Order, []httpapi.FieldError, error) {
	if len(input.Items) == 0 {
		return nil, nil, ErrEmptyOrder
	}

	validItems, lineErrors, err := s.carts.Validate(ctx, input.Items)
	if err != nil {
		return nil, nil, err
	}
	if len(lineErrors) > 0 {
		return nil, lineErrors, nil
	}

	var subtotal float64
	itemCount := 0
	items := make([]Item, 0, len(validItems))
	for _, v := range validItems {
		subtotal += v.Price * float64(v.Quantity)
		itemCount += v.Quantity
		items = append(items, Item{
			ProductID:    &v.ProductID,
			ProductName:  v.Name,
			ProductImage: v.Image,
			Price:        v.Price,
			Quantity:     v.Quantity,
		})
	}
	totals := cart.ComputeTotals(subtotal, 0, itemCount)

	o := &Order{
		UserID:        userID,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		PaymentMethod: input.PaymentMethod,
		CustomerNote:  input.CustomerNote,
		Subtotal:      totals.Subtotal,
		DeliveryFee:   totals.DeliveryFee,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Items:         items,
	}

	for attempt := 1; ; attempt++ {
		err = s.repo.CreateTx(ctx, o)
		if err == nil {
			break
		}
		var stockErr *StockError
		if errors.As(err, &stockErr) {
			return nil, []httpapi.FieldError{{
				ProductName: stockErr.ProductName,
				Message:     "Insufficient stock",
			}}, nil
		}
		if httpapi.IsUniqueViolation(err, "orders_order_number_key") && attempt < createAttempts {
			logger.FromCtx(ctx).Warn("order number collision, retrying",
				zap.String("orderNumber", o.OrderNumber), zap.Int("attempt", attempt))
			continue
		}
		logger.FromCtx(ctx).Error("failed to create order", zap.Error(err))
		return nil, nil, err
	}

	logger.FromCtx(ctx).Info("order created",
		zap.String("orderId", o.ID), zap.String("orderNumber", o.OrderNumber), zap.Float64("total", o.Total))
	return o, nil, nil
}

func canAccess(o *Order, callerID string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return o.UserID != nil && callerID != "" && *o.UserID == callerID
}

func (s *service) Get(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !canAccess(o, callerID, isAdmin) {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Order, int, error) {
	opts.Page, opts.Limit = normalizePaging(opts.Page, opts.Limit)
	return s.repo.List(ctx, opts)
}

func (s *service) ListMine(ctx context.Context, userID string, page, limit int) ([]*Order, int, error) {
	page, limit = normalizePaging(page, limit)
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// Cancel restores stock and marks the order CANCELLED. Customers may only
// cancel before the kitchen starts; admins may cancel any open order.
func (s *service) Cancel(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.Get(ctx, id, callerID, isAdmin)
	if err != nil {
		return nil, err
	}

	switch {
	case o.Status == StatusCancelled:
		return nil, ErrAlreadyCancelled
	case o.Status == StatusDelivered:
		return nil, ErrNotCancellable
	case !isAdmin && o.Status != StatusPending && o.Status != StatusConfirmed:
		return nil, ErrNotCancellable
	}

	if err := s.repo.CancelTx(ctx, id); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("order cancelled", zap.String("orderId", id), zap.String("orderNumber", o.OrderNumber))
	return s.repo.GetByID(ctx, id)
}

// Pay charges the order total through the gateway and records the outcome.
// A paid PENDING order is auto-confirmed.
func (s *service) Pay(ctx context.Context, id, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.Get(ctx, id, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	if o.Status == StatusCancelled {
		return nil, ErrNotCancellable
	}

	receipt, err := s.gateway.Charge(ctx, o.ID, o.Total)
	if err != nil {
		logger.FromCtx(ctx).Warn("payment declined", zap.String("orderId", id), zap.Error(err))
		if setErr := s.repo.SetPayment(ctx, id, PaymentFailed, o.Status); setErr != nil {
			return nil, setErr
		}
		return nil, ErrPaymentFailed
	}

	status := o.Status
	if status == StatusPending {
		status = StatusConfirmed
	}
	if err := s.repo.SetPayment(ctx, id, PaymentPaid, status); err != nil {
		return nil, err
	}
	logger.FromCtx(ctx).Info("order paid",
		zap.String("orderId", id), zap.String("reference", receipt.Reference), zap.Float64("amount", receipt.Amount))
	return s.repo.GetByID(ctx, id)
}

// AdminUpdate applies a partial status/payment/note update, enforcing the
// fulfilment pipeline. Moving to CANCELLED goes through the restocking
// transaction like a regular cancel.
func (s *service) AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status := o.Status
	if input.Status != nil {
		if !ValidStatus(*input.Status) || !CanTransition(o.Status, *input.Status) {
			return nil, ErrInvalidTransition
		}
		status = *input.Status
	}
	paymentStatus := o.PaymentStatus
	if input.PaymentStatus != nil {
		if !ValidPaymentStatus(*input.PaymentStatus) || !CanChangePayment(o.PaymentStatus, *input.PaymentStatus) {
			return nil, ErrInvalidTransition
		}
		paymentStatus = *input.PaymentStatus
	}

	if status == StatusCancelled && o.Status != StatusCancelled {
		if err := s.repo.CancelTx(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.UpdateAdmin(ctx, id, status, paymentStatus, input.AdminNote); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
