package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
)

// Filter narrows a listing. Zero values mean "no filter".
type Filter struct {
	Status      Status
	Type        Type
	SubmittedBy *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, f Filter) ([]Request, error)
	// Process applies a review decision with a conditional update on
	// status, so that of two concurrent reviewers exactly one wins. If
	// publishArticle is set, the linked article row is moved to
	// published in the same transaction.
	Process(ctx context.Context, id uuid.UUID, decision Status, reviewedBy uuid.UUID, notes string, publishArticle *uuid.UUID) (*Request, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepo struct {
	db       *sql.DB
	registry *Registry
}

func NewRepository(db *sql.DB, registry *Registry) Repository {
	return &postgresRepo{db: db, registry: registry}
}

const requestColumns = `id, type, status, data, submitted_by, reviewed_by, review_notes, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, req *Request) error {
	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return err
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	req.UpdatedAt = req.CreatedAt

	query := `
		INSERT INTO requests (id, type, status, data, submitted_by, review_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		req.ID, req.Type, req.Status, dataJSON, req.SubmittedBy, req.CreatedAt, req.UpdatedAt)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
	return r.scan(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE 1=1`
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.SubmittedBy != nil {
		args = append(args, *f.SubmittedBy)
		query += fmt.Sprintf(" AND submitted_by = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := r.scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Process(ctx context.Context, id uuid.UUID, decision Status, reviewedBy uuid.UUID, notes string, publishArticle *uuid.UUID) (*Request, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Conditional update: the WHERE clause on status is the
	// optimistic-concurrency guard. A request already out of pending
	// matches zero rows.
	res, err := tx.ExecContext(ctx, `
		UPDATE requests
		SET status = $2, reviewed_by = $3, review_notes = $4, updated_at = $5
		WHERE id = $1 AND status = 'pending'
	`, id, decision, reviewedBy, notes, time.Now())
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState("request is not pending")
	}

	// Approving an article_approval request publishes the article in
	// the same transaction. Both writes commit or neither does.
	if publishArticle != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE articles
			SET status = 'published', published_at = $2, updated_at = $2
			WHERE id = $1 AND status = 'pending'
		`, *publishArticle, time.Now())
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, apperr.InvalidState("linked article is not pending review")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("request not found")
	}
	return nil
}

func (r *postgresRepo) scan(scan func(dest ...interface{}) error) (*Request, error) {
	var req Request
	var dataJSON []byte
	var submittedBy, reviewedBy uuid.NullUUID

	err := scan(
		&req.ID, &req.Type, &req.Status, &dataJSON,
		&submittedBy, &reviewedBy, &req.ReviewNotes,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("request not found")
	}
	if err != nil {
		return nil, err
	}

	if submittedBy.Valid {
		req.SubmittedBy = &submittedBy.UUID
	}
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.UUID
	}

	payload, err := r.registry.Decode(req.Type, dataJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload for request %s: %w", req.ID, err)
	}
	req.Data = payload
	return &req, nil
}
