package product

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := web.Decode(r, &in); err != nil {
		web.Error(w, err)
		return
	}

	actor, _ := auth.FromContext(r.Context())
	p, err := h.svc.Create(r.Context(), in, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, p)
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
	p, err := h.svc.Update(r.Context(), id, in, actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		web.Error(w, err)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, products)
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
	web.Message(w, http.StatusOK, "product deleted")
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid product id")
	}
	return id, nil
}

func RegisterRoutes(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	r.With(mw.RequireAdmin).Post("/products", h.Create)
	r.With(mw.RequireAdmin).Put("/products/{id}", h.Update)
	r.With(mw.RequireAdmin).Delete("/products/{id}", h.Delete)
}
