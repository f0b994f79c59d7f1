package order

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
)

type Service interface {
	Create(ctx context.Context, items []Item, shippingAddress string, actor auth.Identity) (*Order, error)
	Get(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Order, error)
	ListMine(ctx context.Context, actor auth.Identity) ([]Order, error)
	ListAll(ctx context.Context, actor auth.Identity) ([]Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, evidence PaymentEvidence, actor auth.Identity) (*Order, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, items []Item, shippingAddress string, actor auth.Identity) (*Order, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}
	if len(items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, apperr.Validation("shipping address is required")
	}

	var total float64
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, apperr.Validation("item quantity must be positive")
		}
		if it.Price < 0 {
			return nil, apperr.Validation("item price cannot be negative")
		}
		total += it.Price * float64(it.Quantity)
	}

	o := &Order{
		ID:              uuid.New(),
		UserID:          actor.ID,
		Items:           items,
		TotalPrice:      total,
		ShippingAddress: shippingAddress,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperr.NotFound("order not found")
	}
	return o, nil
}

func (s *service) ListMine(ctx context.Context, actor auth.Identity) ([]Order, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}
	id := actor.ID
	return s.repo.List(ctx, &id)
}

func (s *service) ListAll(ctx context.Context, actor auth.Identity) ([]Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	return s.repo.List(ctx, nil)
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, evidence PaymentEvidence, actor auth.Identity) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	if strings.TrimSpace(evidence.Reference) == "" {
		return nil, apperr.Validation("payment reference is required")
	}
	ref := evidence.Reference
	if evidence.Method != "" {
		ref = evidence.Method + ":" + evidence.Reference
	}
	return s.repo.MarkPaid(ctx, id, ref)
}

func (s *service) MarkDelivered(ctx context.Context, id uuid.UUID, actor auth.Identity) (*Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("admin access required")
	}
	return s.repo.MarkDelivered(ctx, id)
}
