package article

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

// Resubmittable reports whether the author may send the article back
// into review. Published is terminal; pending is already in review.
func (s Status) Resubmittable() bool {
	return s == StatusDraft || s == StatusRejected
}

type Article struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	AuthorID    uuid.UUID  `json:"authorId"`
	Status      Status     `json:"status"`
	ReviewNotes string     `json:"reviewNotes,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
