package request

import (
	"encoding/json"
	"net/http"

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

type submitRequest struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

type processRequest struct {
	Status      Status `json:"status"`
	ReviewNotes string `json:"reviewNotes"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	created, err := h.svc.Submit(r.Context(), req.Type, req.Data, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	reqs, err := h.svc.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("type"), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, reqs)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	reqs, err := h.svc.ListMine(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, reqs)
}

func (h *Handler) UpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	reqs, err := h.svc.UpcomingAppointments(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, reqs)
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, apperr.Validation("invalid request id"))
		return
	}

	var body processRequest
	if err := web.Decode(r, &body); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	processed, err := h.svc.Process(r.Context(), id, body.Status, actor, body.ReviewNotes)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, processed)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, apperr.Validation("invalid request id"))
		return
	}

	actor, _ := auth.FromContext(r.Context())
	if err := h.svc.Delete(r.Context(), id, actor); err != nil {
		web.Error(w, err)
		return
	}
	web.Message(w, http.StatusOK, "request deleted")
}

func RegisterRoutes(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.With(mw.Optional).Post("/requests", h.Submit)
	r.With(mw.RequireAdmin).Get("/requests", h.List)
	r.With(mw.RequireAuth).Get("/requests/user", h.ListMine)
	r.With(mw.RequireAuth).Get("/requests/appointments/upcoming", h.UpcomingAppointments)
	r.With(mw.RequireAdmin).Put("/requests/{id}/process", h.Process)
	r.With(mw.RequireAdmin).Delete("/requests/{id}", h.Delete)
}
