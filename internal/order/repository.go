package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, userID *uuid.UUID) ([]Order, error)
	// MarkPaid flips is_paid with a conditional update; a second call
	// matches zero rows and fails, leaving the original paid_at
	// untouched.
	MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const orderColumns = `id, user_id, items, total_price, shipping_address, is_paid, paid_at, payment_ref, is_delivered, delivered_at, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, o *Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = o.CreatedAt

	query := `
		INSERT INTO orders (id, user_id, items, total_price, shipping_address, is_paid, is_delivered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		o.ID, o.UserID, itemsJSON, o.TotalPrice, o.ShippingAddress, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, userID *uuid.UUID) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2, payment_ref = $3, updated_at = $2
		WHERE id = $1 AND is_paid = FALSE
	`, id, time.Now(), paymentRef)
	if err != nil {
		return nil, err
	}
	return r.afterFlip(ctx, id, res, "order is already marked paid")
}

func (r *postgresRepo) MarkDelivered(ctx context.Context, id uuid.UUID) (*Order, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = $2, updated_at = $2
		WHERE id = $1 AND is_delivered = FALSE
	`, id, time.Now())
	if err != nil {
		return nil, err
	}
	return r.afterFlip(ctx, id, res, "order is already marked delivered")
}

func (r *postgresRepo) afterFlip(ctx context.Context, id uuid.UUID, res sql.Result, conflictMsg string) (*Order, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("%s", conflictMsg)
	}
	return r.GetByID(ctx, id)
}

func scanOrder(scan func(dest ...interface{}) error) (*Order, error) {
	var o Order
	var itemsJSON []byte
	var paidAt, deliveredAt sql.NullTime
	var paymentRef sql.NullString

	err := scan(
		&o.ID, &o.UserID, &itemsJSON, &o.TotalPrice, &o.ShippingAddress,
		&o.IsPaid, &paidAt, &paymentRef, &o.IsDelivered, &deliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order not found")
	}
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	o.PaymentRef = paymentRef.String
	return &o, nil
}
