package category

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, input CategoryInput) (*Category, error)
	Update(ctx context.Context, id string, input CategoryInput) (*Category, error)
	Delete(ctx context.Context, id string) error
	CountProducts(ctx context.Context, id string) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const categoryColumns = `id, name, slug, description, image, sort_order, created_at, updated_at`

func scanCategory(s interface {
	Scan(dest ...any) error
}) (*Category, error) {
	var c Category
	err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetAll(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	return scanCategory(row)
}

func (r *repository) Create(ctx context.Context, input CategoryInput) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, slug, description, image, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		uuid.New().String(), input.Name, input.Slug,
		input.Description, input.Image, input.SortOrder,
	)
	return scanCategory(row)
}

func (r *repository) Update(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $1, slug = $2, description = $3, image = $4, sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		input.Name, input.Slug, input.Description, input.Image, input.SortOrder, id,
	)
	return scanCategory(row)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repository) CountProducts(ctx context.Context, id string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count)
	return count, err
}
