package article

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
)

type Input struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Category string `json:"category"`
	ImageURL string `json:"imageUrl"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return apperr.Validation("title and content are required")
	}
	return nil
}

type Service interface {
	Create(ctx context.Context, in Input, actor auth.Identity) (*Article, error)
	Update(ctx context.Context, id uuid.UUID, in Input, actor auth.Identity) (*Article, error)
	Get(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Article, error)
	ListPublished(ctx context.Context) ([]Article, error)
	ListAll(ctx context.Context, actor auth.Identity) ([]Article, error)
	SubmitForApproval(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Article, error)
	Review(ctx context.Context, id uuid.UUID, decision string, actor auth.Identity, notes string) (*Article, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in Input, actor auth.Identity) (*Article, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &Article{
		ID:       uuid.New(),
		Title:    in.Title,
		Summary:  in.Summary,
		Content:  in.Content,
		Category: in.Category,
		ImageURL: in.ImageURL,
		AuthorID: actor.ID,
		Status:   StatusDraft,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input, actor auth.Identity) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.Permission("only the author may edit this article")
	}
	if !a.Status.Resubmittable() && !actor.IsAdmin() {
		return nil, apperr.InvalidState("article cannot be edited while %s", a.Status)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	a.Title = in.Title
	a.Summary = in.Summary
	a.Content = in.Content
	a.Category = in.Category
	a.ImageURL = in.ImageURL
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns a published article to anyone; unpublished articles are
// visible only to their author and to reviewers.
func (s *service) Get(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusPublished && a.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.NotFound("article not found")
	}
	return a, nil
}

func (s *service) ListPublished(ctx context.Context) ([]Article, error) {
	return s.repo.List(ctx, Filter{Status: StatusPublished})
}

func (s *service) ListAll(ctx context.Context, actor auth.Identity) ([]Article, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	return s.repo.List(ctx, Filter{})
}

func (s *service) SubmitForApproval(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AuthorID != actor.ID {
		return nil, apperr.Permission("only the author may submit this article for approval")
	}
	if !a.Status.Resubmittable() {
		return nil, apperr.InvalidState("article cannot be submitted while %s", a.Status)
	}

	if err := s.repo.SubmitForApproval(ctx, id, actor.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Review(ctx context.Context, id uuid.UUID, decision string, actor auth.Identity, notes string) (*Article, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("reviewer role required")
	}

	var target Status
	switch decision {
	case "approved":
		target = StatusPublished
	case "rejected":
		target = StatusRejected
	default:
		return nil, apperr.Validation("decision must be approved or rejected")
	}

	if err := s.repo.Review(ctx, id, target, actor.ID, notes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return s.repo.Delete(ctx, id)
	}
	if a.AuthorID != actor.ID {
		return apperr.Permission("only the author may delete this article")
	}
	if !a.Status.Resubmittable() {
		return apperr.InvalidState("article cannot be deleted while %s", a.Status)
	}
	return s.repo.Delete(ctx, id)
}
