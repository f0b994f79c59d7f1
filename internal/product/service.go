package product

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
)

type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	InStock     bool    `json:"inStock"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("product name is required")
	}
	if in.Price < 0 {
		return apperr.Validation("price cannot be negative")
	}
	return nil
}

type Service interface {
	Create(ctx context.Context, in Input, actor auth.Identity) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, in Input, actor auth.Identity) (*Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, category string) ([]Product, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in Input, actor auth.Identity) (*Product, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		InStock:     in.InStock,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input, actor auth.Identity) (*Product, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.ImageURL = in.ImageURL
	p.InStock = in.InStock
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, category string) ([]Product, error) {
	return s.repo.List(ctx, category)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error {
	if !actor.IsAdmin() {
		return apperr.Permission("admin access required")
	}
	return s.repo.Delete(ctx, id)
}
