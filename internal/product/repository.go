package product

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, category string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const productColumns = `id, name, description, category, price, image_url, in_stock, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt

	query := `
		INSERT INTO products (id, name, description, category, price, image_url, in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.InStock, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, image_url = $6, in_stock = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.ImageURL, p.InStock, p.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product not found")
	}
	return nil
}

func scanProduct(scan func(dest ...interface{}) error) (*Product, error) {
	var p Product
	var imageURL sql.NullString

	err := scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &imageURL, &p.InStock, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageURL.String
	return &p, nil
}
