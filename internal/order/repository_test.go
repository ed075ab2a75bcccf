package order

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sushiwave-be/internal/utils"
)

var orderCols = []string{
	"id", "order_number", "user_id", "first_name", "last_name", "email", "phone", "address",
	"status", "payment_status", "payment_method", "customer_note", "admin_note",
	"subtotal", "delivery_fee", "discount", "total", "created_at", "updated_at",
}

var itemCols = []string{"id", "order_id", "product_id", "product_name", "product_image", "price", "quantity"}

func orderRow(id, number string, status Status, payment PaymentStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).AddRow(
		id, number, "u-1", "Anna", "Ivanova", "anna@example.com", "+79990001122", "Nevsky 1",
		status, payment, "CARD", nil, nil,
		1050.0, 0.0, 0.0, 1050.0, now, now,
	)
}

func testRepo(db *sql.DB) *repository {
	at := time.Date(2025, time.September, 14, 12, 0, 0, 0, time.UTC)
	return &repository{db: db, now: func() time.Time { return at }}
}

func TestRepository_CreateTx(t *testing.T) {
	ctx := context.Background()

	newOrder := func() *Order {
		return &Order{
			Status:        StatusPending,
			PaymentStatus: PaymentPending,
			PaymentMethod: MethodCard,
			FirstName:     "Anna",
			LastName:      "Ivanova",
			Email:         "anna@example.com",
			Phone:         "+79990001122",
			Address:       "Nevsky 1",
			Subtotal:      1050, Total: 1050,
			Items: []Item{
				{ProductID: utils.StrPtr("p-1"), ProductName: "Philadelphia", Price: 450, Quantity: 1},
				{ProductID: utils.StrPtr("p-2"), ProductName: "California", Price: 120, Quantity: 5},
			},
		}
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products\s+SET stock_quantity = stock_quantity - \$1`).
			WithArgs(1, "p-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products\s+SET stock_quantity = stock_quantity - \$1`).
			WithArgs(5, "p-2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT order_number FROM orders`).
			WithArgs("SW-2509%").
			WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow("SW-25090007"))
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("o-1", time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("oi-1"))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("oi-2"))
		mock.ExpectCommit()

		o := newOrder()
		err = repo.CreateTx(ctx, o)

		require.NoError(t, err)
		assert.Equal(t, "SW-25090008", o.OrderNumber)
		assert.Equal(t, "o-1", o.ID)
		assert.Equal(t, "o-1", o.Items[0].OrderID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FirstOrderOfMonth", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products`).WithArgs(1, "p-1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products`).WithArgs(5, "p-2").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT order_number FROM orders`).
			WithArgs("SW-2509%").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO orders`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow("o-1", time.Now(), time.Now()))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("oi-1"))
		mock.ExpectQuery(`INSERT INTO order_items`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("oi-2"))
		mock.ExpectCommit()

		o := newOrder()
		require.NoError(t, repo.CreateTx(ctx, o))
		assert.Equal(t, "SW-25090001", o.OrderNumber)
	})

	t.Run("InsufficientStockRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE products`).WithArgs(1, "p-1").WillReturnResult(sqlmock.NewResult(0, 1))
		// second line has more requested than in stock, the guard matches no row
		mock.ExpectExec(`UPDATE products`).WithArgs(5, "p-2").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.CreateTx(ctx, newOrder())

		var stockErr *StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "California", stockErr.ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CancelTx(t *testing.T) {
	ctx := context.Background()

	t.Run("RestoresStock", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusCancelled, "o-1", StatusDelivered, StatusCancelled).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products p\s+SET stock_quantity = p\.stock_quantity \+ oi\.quantity`).
			WithArgs("o-1").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		assert.NoError(t, repo.CancelTx(ctx, "o-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("TerminalOrderUntouched", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.CancelTx(ctx, "o-done"), ErrNotCancellable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := testRepo(db)

	mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
		WithArgs("o-1").
		WillReturnRows(orderRow("o-1", "SW-25090008", StatusPending, PaymentPending))
	mock.ExpectQuery(`SELECT .* FROM order_items WHERE order_id = \$1`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow("oi-1", "o-1", "p-1", "Philadelphia", "philadelphia.jpg", 450.0, 1).
			AddRow("oi-2", "o-1", "p-2", "California", "california.jpg", 120.0, 5))

	o, err := repo.GetByID(context.Background(), "o-1")

	require.NoError(t, err)
	assert.Equal(t, "SW-25090008", o.OrderNumber)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 5, o.Items[1].Quantity)
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := testRepo(db)

	status := StatusPending
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders WHERE 1=1 AND status = \$1`).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .* FROM orders WHERE 1=1 AND status = \$1 ORDER BY created_at DESC`).
		WithArgs(status, 10, 0).
		WillReturnRows(orderRow("o-1", "SW-25090008", StatusPending, PaymentPending))
	mock.ExpectQuery(`SELECT .* FROM order_items`).
		WithArgs("o-1").
		WillReturnRows(sqlmock.NewRows(itemCols))

	orders, total, err := repo.List(context.Background(), ListOptions{Status: &status, Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, StatusPending, orders[0].Status)
}

func TestRepository_SetPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectExec(`UPDATE orders SET payment_status = \$1`).
			WithArgs(PaymentPaid, StatusConfirmed, "o-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetPayment(context.Background(), "o-1", PaymentPaid, StatusConfirmed))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := testRepo(db)

		mock.ExpectExec(`UPDATE orders SET payment_status = \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetPayment(context.Background(), "missing", PaymentPaid, StatusConfirmed), sql.ErrNoRows)
	})
}
