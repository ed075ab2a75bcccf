package category

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryCols = []string{
	"id", "name", "slug", "description", "image", "sort_order", "created_at", "updated_at",
}

func categoryRow(id, name, slug string, sortOrder int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(categoryCols).AddRow(id, name, slug, nil, nil, sortOrder, now, now)
}

func TestRepository_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		rows := sqlmock.NewRows(categoryCols).
			AddRow("c-1", "Rolls", "rolls", nil, nil, 1, time.Now(), time.Now()).
			AddRow("c-2", "Sets", "sets", nil, nil, 2, time.Now(), time.Now())
		mock.ExpectQuery(`SELECT .* FROM categories\s+ORDER BY sort_order`).
			WillReturnRows(rows)

		res, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		if assert.Len(t, res, 2) {
			assert.Equal(t, "rolls", res[0].Slug)
		}
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`SELECT .*`).WillReturnError(errors.New("db error"))
		_, err = repo.GetAll(ctx)
		assert.Error(t, err)
	})
}

func TestRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .* FROM categories WHERE slug = \$1`).
		WithArgs("rolls").
		WillReturnRows(categoryRow("c-1", "Rolls", "rolls", 1))

	c, err := repo.GetBySlug(context.Background(), "rolls")
	assert.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`INSERT INTO categories`).
		WillReturnRows(categoryRow("c-9", "Drinks", "drinks", 5))

	c, err := repo.Create(context.Background(), CategoryInput{Name: "Drinks", Slug: "drinks", SortOrder: 5})
	assert.NoError(t, err)
	assert.Equal(t, "drinks", c.Slug)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
			WithArgs("c-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "c-1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), sql.ErrNoRows)
	})
}

func TestRepository_CountProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE category_id = \$1`).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountProducts(context.Background(), "c-1")
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}
