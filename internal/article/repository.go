package article

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
)

type Filter struct {
	Status   Status
	AuthorID *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, a *Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)
	List(ctx context.Context, f Filter) ([]Article, error)
	Update(ctx context.Context, a *Article) error
	// SubmitForApproval moves a draft or rejected article to pending
	// and creates the linked article_approval request in the same
	// transaction. The status condition in the UPDATE guards against a
	// concurrent submit or review.
	SubmitForApproval(ctx context.Context, articleID, submittedBy uuid.UUID) error
	// Review moves a pending article to published or rejected and
	// resolves the linked pending request row, both in one
	// transaction.
	Review(ctx context.Context, articleID uuid.UUID, target Status, reviewedBy uuid.UUID, notes string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const articleColumns = `id, title, summary, content, category, image_url, author_id, status, review_notes, published_at, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, a *Article) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.UpdatedAt = a.CreatedAt

	query := `
		INSERT INTO articles (id, title, summary, content, category, image_url, author_id, status, review_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Title, a.Summary, a.Content, a.Category, a.ImageURL,
		a.AuthorID, a.Status, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	return scanArticle(row.Scan)
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE 1=1`
	var args []interface{}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		query += fmt.Sprintf(" AND author_id = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		a, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, a *Article) error {
	a.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE articles
		SET title = $2, summary = $3, content = $4, category = $5, image_url = $6, updated_at = $7
		WHERE id = $1
	`, a.ID, a.Title, a.Summary, a.Content, a.Category, a.ImageURL, a.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("article not found")
	}
	return nil
}

func (r *postgresRepo) SubmitForApproval(ctx context.Context, articleID, submittedBy uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	var title string
	// Re-submission clears the previous review's notes.
	err = tx.QueryRowContext(ctx, `
		UPDATE articles
		SET status = 'pending', review_notes = '', updated_at = $2
		WHERE id = $1 AND status IN ('draft', 'rejected')
		RETURNING title
	`, articleID, now).Scan(&title)
	if err == sql.ErrNoRows {
		return apperr.InvalidState("article is not in a submittable state")
	}
	if err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{
		"articleId": articleID.String(),
		"title":     title,
	})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO requests (id, type, status, data, submitted_by, review_notes, created_at, updated_at)
		VALUES ($1, 'article_approval', 'pending', $2, $3, '', $4, $4)
	`, uuid.New(), data, submittedBy, now)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Review(ctx context.Context, articleID uuid.UUID, target Status, reviewedBy uuid.UUID, notes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	var publishedAt interface{}
	if target == StatusPublished {
		publishedAt = now
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE articles
		SET status = $2, review_notes = $3, published_at = COALESCE($4, published_at), updated_at = $5
		WHERE id = $1 AND status = 'pending'
	`, articleID, target, notes, publishedAt, now)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, articleID); err != nil {
			return err
		}
		return apperr.InvalidState("article is not pending review")
	}

	// Resolve the linked moderation-queue row so the two views stay
	// consistent. Best effort: the row may already have been processed
	// from the request side.
	requestStatus := "approved"
	if target == StatusRejected {
		requestStatus = "rejected"
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE requests
		SET status = $2, reviewed_by = $3, review_notes = $4, updated_at = $5
		WHERE type = 'article_approval' AND status = 'pending' AND data->>'articleId' = $1
	`, articleID.String(), requestStatus, reviewedBy, notes, now)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("article not found")
	}
	return nil
}

func scanArticle(scan func(dest ...interface{}) error) (*Article, error) {
	var a Article
	var imageURL sql.NullString
	var publishedAt sql.NullTime

	err := scan(
		&a.ID, &a.Title, &a.Summary, &a.Content, &a.Category, &imageURL,
		&a.AuthorID, &a.Status, &a.ReviewNotes, &publishedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("article not found")
	}
	if err != nil {
		return nil, err
	}

	a.ImageURL = imageURL.String
	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}
	return &a, nil
}
