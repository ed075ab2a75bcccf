package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Repository interface {
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, int, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetFeatured(ctx context.Context, limit int) (*Featured, error)
	Create(ctx context.Context, input ProductInput) (*Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*Product, error)
	Patch(ctx context.Context, id string, input PatchInput) (*Product, error)
	Delete(ctx context.Context, id string) error
	CategoryExists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.price, p.old_price, p.image,
	       p.weight, p.calories, p.proteins, p.fats, p.carbohydrates,
	       p.stock_quantity, p.is_active, p.is_bestseller, p.is_new,
	       p.category_id, c.id, c.name, c.slug,
	       p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(s interface {
	Scan(dest ...any) error
}) (*Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OldPrice, &p.Image,
		&p.Weight, &p.Calories, &p.Proteins, &p.Fats, &p.Carbohydrates,
		&p.StockQuantity, &p.IsActive, &p.IsBestseller, &p.IsNew,
		&p.CategoryID, &p.Category.ID, &p.Category.Name, &p.Category.Slug,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*Product, error) {
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// buildFilter assembles the WHERE clause and its args from opts.
func buildFilter(opts QueryOptions) (string, []any) {
	conditions := []string{"1=1"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.CategorySlug != nil {
		conditions = append(conditions, "c.slug = "+arg(*opts.CategorySlug))
	}
	if opts.MinPrice != nil {
		conditions = append(conditions, "p.price >= "+arg(*opts.MinPrice))
	}
	if opts.MaxPrice != nil {
		conditions = append(conditions, "p.price <= "+arg(*opts.MaxPrice))
	}
	if opts.IsNew != nil {
		conditions = append(conditions, "p.is_new = "+arg(*opts.IsNew))
	}
	if opts.IsBestseller != nil {
		conditions = append(conditions, "p.is_bestseller = "+arg(*opts.IsBestseller))
	}
	if opts.Search != nil && *opts.Search != "" {
		pattern := "%" + *opts.Search + "%"
		ph := arg(pattern)
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s)", ph, ph))
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func buildSort(opts QueryOptions) string {
	column := "p.created_at"
	switch opts.SortBy {
	case "price":
		column = "p.price"
	case "name":
		column = "p.name"
	case "createdAt":
		column = "p.created_at"
	}

	direction := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

func (r *repository) GetList(ctx context.Context, opts QueryOptions) ([]*Product, int, error) {
	where, args := buildFilter(opts)

	var total int
	countQuery := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.Limit
	query := productSelect + where + buildSort(opts) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id)
	return scanProduct(row)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, productSelect+` WHERE p.slug = $1`, slug)
	return scanProduct(row)
}

func (r *repository) GetFeatured(ctx context.Context, limit int) (*Featured, error) {
	half := (limit + 1) / 2

	rows, err := r.db.QueryContext(ctx,
		productSelect+` WHERE p.is_bestseller = TRUE AND p.is_active = TRUE ORDER BY p.created_at DESC LIMIT $1`,
		half)
	if err != nil {
		return nil, err
	}
	bestsellers, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx,
		productSelect+` WHERE p.is_new = TRUE AND p.is_active = TRUE ORDER BY p.created_at DESC LIMIT $1`,
		half)
	if err != nil {
		return nil, err
	}
	newProducts, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	return &Featured{Bestsellers: bestsellers, NewProducts: newProducts}, nil
}

func (r *repository) Create(ctx context.Context, input ProductInput) (*Product, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	var id string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, name, slug, description, price, old_price, image,
			weight, calories, proteins, fats, carbohydrates,
			stock_quantity, is_active, is_bestseller, is_new, category_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id`,
		uuid.New().String(), input.Name, input.Slug, input.Description,
		input.Price, input.OldPrice, input.Image,
		input.Weight, input.Calories, input.Proteins, input.Fats, input.Carbohydrates,
		input.StockQuantity, isActive, input.IsBestseller, input.IsNew, input.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, old_price = $5,
		    image = $6, weight = $7, calories = $8, proteins = $9, fats = $10,
		    carbohydrates = $11, stock_quantity = $12, is_active = $13,
		    is_bestseller = $14, is_new = $15, category_id = $16, updated_at = NOW()
		WHERE id = $17`,
		input.Name, input.Slug, input.Description, input.Price, input.OldPrice,
		input.Image, input.Weight, input.Calories, input.Proteins, input.Fats,
		input.Carbohydrates, input.StockQuantity, isActive,
		input.IsBestseller, input.IsNew, input.CategoryID, id,
	)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Patch(ctx context.Context, id string, input PatchInput) (*Product, error) {
	var sets []string
	var args []any

	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.StockQuantity != nil {
		set("stock_quantity", *input.StockQuantity)
	}
	if input.IsActive != nil {
		set("is_active", *input.IsActive)
	}
	if input.IsBestseller != nil {
		set("is_bestseller", *input.IsBestseller)
	}
	if input.IsNew != nil {
		set("is_new", *input.IsNew)
	}
	if input.Price != nil {
		set("price", *input.Price)
	}
	if input.OldPrice != nil {
		set("old_price", *input.OldPrice)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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

func (r *repository) CategoryExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
