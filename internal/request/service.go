package request

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
)

// Notifier receives best-effort signals when a request reaches a
// terminal state. Implementations must not block the transition;
// failures are logged and dropped.
type Notifier interface {
	AppointmentApproved(ctx context.Context, req Request, booking AppointmentBooking) error
	RequestSubmitted(ctx context.Context, req Request) error
}

type Service interface {
	Submit(ctx context.Context, t Type, data json.RawMessage, actor auth.Identity) (*Request, error)
	List(ctx context.Context, statusFilter, typeFilter string, actor auth.Identity) ([]Request, error)
	ListMine(ctx context.Context, actor auth.Identity) ([]Request, error)
	UpcomingAppointments(ctx context.Context, actor auth.Identity) ([]Request, error)
	Process(ctx context.Context, id uuid.UUID, decision Status, actor auth.Identity, notes string) (*Request, error)
	Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error
}

type service struct {
	repo     Repository
	registry *Registry
	notifier Notifier
	logger   *zap.Logger
}

func NewService(repo Repository, registry *Registry, notifier Notifier, logger *zap.Logger) Service {
	return &service{repo: repo, registry: registry, notifier: notifier, logger: logger}
}

func (s *service) Submit(ctx context.Context, t Type, data json.RawMessage, actor auth.Identity) (*Request, error) {
	if !s.registry.Known(t) {
		return nil, apperr.Validation("unknown request type: %s", t)
	}
	if s.registry.RequiresSubmitter(t) && actor.Anonymous() {
		return nil, apperr.Validation("request type %s requires a signed-in submitter", t)
	}

	payload, err := s.registry.Decode(t, data)
	if err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	req := &Request{
		ID:     uuid.New(),
		Type:   t,
		Status: StatusPending,
		Data:   payload,
	}
	if !actor.Anonymous() {
		id := actor.ID
		req.SubmittedBy = &id
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go func(r Request) {
			if err := s.notifier.RequestSubmitted(context.Background(), r); err != nil {
				s.logger.Warn("submit notification failed",
					zap.String("request_id", r.ID.String()), zap.Error(err))
			}
		}(*req)
	}
	return req, nil
}

// List is the moderation-queue view: reviewer only, most recent first.
// Unknown filter values pass through as "no filter".
func (s *service) List(ctx context.Context, statusFilter, typeFilter string, actor auth.Identity) ([]Request, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("reviewer role required")
	}

	var f Filter
	switch st := Status(statusFilter); st {
	case StatusPending, StatusApproved, StatusRejected:
		f.Status = st
	}
	if t := Type(typeFilter); s.registry.Known(t) {
		f.Type = t
	}
	return s.repo.List(ctx, f)
}

func (s *service) ListMine(ctx context.Context, actor auth.Identity) ([]Request, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}
	id := actor.ID
	return s.repo.List(ctx, Filter{SubmittedBy: &id})
}

// appointmentDate extracts the scheduled date from the payloads that
// carry one. Both bookings and free consultations show up on the
// dashboard.
func appointmentDate(p Payload) (string, bool) {
	switch v := p.(type) {
	case AppointmentBooking:
		return v.AppointmentDate, true
	case FreeConsultation:
		return v.AppointmentDate, true
	}
	return "", false
}

// UpcomingAppointments uses the dashboard ordering: ascending by the
// appointment date inside the payload, not by creation time.
func (s *service) UpcomingAppointments(ctx context.Context, actor auth.Identity) ([]Request, error) {
	if actor.Anonymous() {
		return nil, apperr.Permission("authentication required")
	}

	f := Filter{Status: StatusApproved}
	if !actor.IsAdmin() {
		id := actor.ID
		f.SubmittedBy = &id
	}
	reqs, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	upcoming := reqs[:0]
	for _, r := range reqs {
		if date, ok := appointmentDate(r.Data); ok && date >= today {
			upcoming = append(upcoming, r)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		di, _ := appointmentDate(upcoming[i].Data)
		dj, _ := appointmentDate(upcoming[j].Data)
		return di < dj
	})
	return upcoming, nil
}

func (s *service) Process(ctx context.Context, id uuid.UUID, decision Status, actor auth.Identity, notes string) (*Request, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Permission("reviewer role required")
	}
	if !ValidDecision(decision) {
		return nil, apperr.Validation("decision must be approved or rejected")
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, apperr.InvalidState("request is not pending")
	}

	// Approving an article_approval request publishes the linked
	// article atomically with the status change.
	var publishArticle *uuid.UUID
	if req.Type == TypeArticleApproval && decision == StatusApproved {
		approval := req.Data.(ArticleApproval)
		articleID, err := uuid.Parse(approval.ArticleID)
		if err != nil {
			return nil, apperr.Validation("linked article id is malformed")
		}
		publishArticle = &articleID
	}

	processed, err := s.repo.Process(ctx, id, decision, actor.ID, notes, publishArticle)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && processed.Type == TypeAppointmentBooking && decision == StatusApproved {
		if booking, ok := processed.Data.(AppointmentBooking); ok {
			go func(r Request, b AppointmentBooking) {
				if err := s.notifier.AppointmentApproved(context.Background(), r, b); err != nil {
					s.logger.Warn("appointment notification failed",
						zap.String("request_id", r.ID.String()), zap.Error(err))
				}
			}(*processed, booking)
		}
	}
	return processed, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor auth.Identity) error {
	if !actor.IsAdmin() {
		return apperr.Permission("reviewer role required")
	}
	return s.repo.Delete(ctx, id)
}
