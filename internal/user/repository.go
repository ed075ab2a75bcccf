package user

import (
	"context"
	"database/sql"

	"sushiwave-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, input RegisterInput, hashedPassword, role string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, page, limit int) ([]User, int, error)
	UpdateProfile(ctx context.Context, id string, input ProfileInput) (User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	UpdateRole(ctx context.Context, id, role string) (User, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password, first_name, last_name, phone, address, role, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Phone, &u.Address, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *repository) Create(ctx context.Context, input RegisterInput, hashedPassword, role string) (User, error) {
	log := logger.FromCtx(ctx)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password, first_name, last_name, phone, address, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		uuid.New().String(), input.Email, hashedPassword,
		input.FirstName, input.LastName, input.Phone, input.Address, role,
	)

	u, err := scanUser(row)
	if err != nil {
		log.Error("db: failed to insert user",
			zap.String("email", input.Email),
			zap.Error(err),
		)
	}

	return u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *repository) FindByID(ctx context.Context, id string) (User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *repository) List(ctx context.Context, page, limit int) ([]User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		err := rows.Scan(
			&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
			&u.Phone, &u.Address, &u.Role, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *repository) UpdateProfile(ctx context.Context, id string, input ProfileInput) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET first_name = $1, last_name = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		input.FirstName, input.LastName, input.Phone, input.Address, id,
	)
	return scanUser(row)
}

func (r *repository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, id,
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

func (r *repository) UpdateRole(ctx context.Context, id, role string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2
		RETURNING `+userColumns,
		role, id,
	)
	return scanUser(row)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
