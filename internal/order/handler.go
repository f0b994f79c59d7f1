package order

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
	"healthai-backend/internal/platform/web"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Items           []Item `json:"items"`
	ShippingAddress string `json:"shippingAddress"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	o, err := h.svc.Create(r.Context(), req.Items, req.ShippingAddress, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, o)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	o, err := h.svc.Get(r.Context(), id, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, o)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	orders, err := h.svc.ListMine(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, orders)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	orders, err := h.svc.ListAll(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, orders)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	var evidence PaymentEvidence
	if err := web.Decode(r, &evidence); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	o, err := h.svc.MarkPaid(r.Context(), id, evidence, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, o)
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	o, err := h.svc.MarkDelivered(r.Context(), id, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, o)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	orders, err := h.svc.ListAll(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}

	f, err := ExportXLSX(orders)
	if err != nil {
		web.Error(w, err)
		return
	}

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(w); err != nil {
		return
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid order id")
	}
	return id, nil
}

func RegisterRoutes(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.With(mw.RequireAuth).Post("/orders", h.Create)
	r.With(mw.RequireAdmin).Get("/orders", h.ListAll)
	r.With(mw.RequireAdmin).Get("/orders/export", h.Export)
	r.With(mw.RequireAuth).Get("/orders/mine", h.ListMine)
	r.With(mw.RequireAuth).Get("/orders/{id}", h.Get)
	r.With(mw.RequireAdmin).Put("/orders/{id}/pay", h.MarkPaid)
	r.With(mw.RequireAdmin).Put("/orders/{id}/deliver", h.MarkDelivered)
}
