package order

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository interface {
	CreateTx(ctx context.Context, o *Order) error
	CancelTx(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, opts ListOptions) ([]*Order, int, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int, error)
	UpdateAdmin(ctx context.Context, id string, status Status, payment PaymentStatus, adminNote *string) error
	SetPayment(ctx context.Context, id string, payment PaymentStatus, status Status) error
}

type repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db, now: time.Now}
}

const orderColumns = `id, order_number, user_id, first_name, last_name, email, phone, address,
		status, payment_status, payment_method, customer_note, admin_note,
		subtotal, delivery_fee, discount, total, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.FirstName, &o.LastName, &o.Email, &o.Phone, &o.Address,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.CustomerNote, &o.AdminNote,
		&o.Subtotal, &o.DeliveryFee, &o.Discount, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateTx reserves stock, assigns the order number and persists the order
// with its items in a single transaction. Any failure rolls everything
// back, so stock is never decremented for an order that was not created.
func (r *repository) CreateTx(ctx context.Context, o *Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range o.Items {
		it := &o.Items[i]
		if it.ProductID == nil {
			continue
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2 AND is_active = TRUE AND stock_quantity >= $1`,
			it.Quantity, *it.ProductID,
		)
		if err != nil {
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return &StockError{ProductName: it.ProductName}
		}
	}

	prefix := NumberPrefix(r.now())
	var last sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT order_number FROM orders
		WHERE order_number LIKE $1
		ORDER BY order_number DESC LIMIT 1`,
		prefix+"%",
	).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read last order number: %w", err)
	}
	o.OrderNumber = NextNumber(prefix, last.String)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_number, user_id, first_name, last_name, email, phone, address,
			status, payment_status, payment_method, customer_note,
			subtotal, delivery_fee, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		o.OrderNumber, o.UserID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address,
		o.Status, o.PaymentStatus, o.PaymentMethod, o.CustomerNote,
		o.Subtotal, o.DeliveryFee, o.Discount, o.Total,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_image, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			it.OrderID, it.ProductID, it.ProductName, it.ProductImage, it.Price, it.Quantity,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// CancelTx flips the order to CANCELLED and restores the reserved stock in
// one transaction. The status guard in the UPDATE makes the restock happen
// at most once even under concurrent cancel requests.
func (r *repository) CancelTx(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status NOT IN ($3, $4)`,
		StatusCancelled, id, StatusDelivered, StatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotCancellable
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock_quantity = p.stock_quantity + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) loadItems(ctx context.Context, o *Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, product_image, price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`,
		o.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImage, &it.Price, &it.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Order, int, error) {
	where := "1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if opts.Status != nil {
		where += " AND status = " + arg(*opts.Status)
	}
	if opts.PaymentStatus != nil {
		where += " AND payment_status = " + arg(*opts.PaymentStatus)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where +
		` ORDER BY created_at DESC LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg((opts.Page-1)*opts.Limit)
	return r.queryOrders(ctx, query, args, total)
}

func (r *repository) ListByUser(ctx context.Context, userID string, page, limit int) ([]*Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.queryOrders(ctx, query, []any{userID, limit, (page - 1) * limit}, total)
}

func (r *repository) queryOrders(ctx context.Context, query string, args []any, total int) ([]*Order, int, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *repository) UpdateAdmin(ctx context.Context, id string, status Status, payment PaymentStatus, adminNote *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, admin_note = COALESCE($3, admin_note), updated_at = NOW()
		WHERE id = $4`,
		status, payment, adminNote, id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) SetPayment(ctx context.Context, id string, payment PaymentStatus, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		payment, status, id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
