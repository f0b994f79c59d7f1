package article

import (
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

type reviewRequest struct {
	Status      string `json:"status"`
	ReviewNotes string `json:"reviewNotes"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := web.Decode(r, &in); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	a, err := h.svc.Create(r.Context(), in, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	var in Input
	if err := web.Decode(r, &in); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	a, err := h.svc.Update(r.Context(), id, in, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, a)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	a, err := h.svc.Get(r.Context(), id, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, a)
}

func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.ListPublished(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, articles)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	articles, err := h.svc.ListAll(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, articles)
}

func (h *Handler) SubmitForApproval(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	a, err := h.svc.SubmitForApproval(r.Context(), id, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, a)
}

func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	var body reviewRequest
	if err := web.Decode(r, &body); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	a, err := h.svc.Review(r.Context(), id, body.Status, actor, body.ReviewNotes)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	if err := h.svc.Delete(r.Context(), id, actor); err != nil {
		web.Error(w, err)
		return
	}
	web.Message(w, http.StatusOK, "article deleted")
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid article id")
	}
	return id, nil
}

func RegisterRoutes(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.Get("/articles", h.ListPublished)
	r.With(mw.RequireAdmin).Get("/articles/admin/all", h.ListAll)
	r.With(mw.Optional).Get("/articles/{id}", h.Get)
	r.With(mw.RequireAuth).Post("/articles", h.Create)
	r.With(mw.RequireAuth).Put("/articles/{id}", h.Update)
	r.With(mw.RequireAuth).Delete("/articles/{id}", h.Delete)
	r.With(mw.RequireAuth).Post("/articles/{id}/submit", h.SubmitForApproval)
	r.With(mw.RequireAdmin).Put("/articles/{id}/review", h.Review)
}
