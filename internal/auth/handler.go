package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/platform/web"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	u, token, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		web.Error(w, err)
		return
	}

	setSessionCookie(w, token)
	web.JSON(w, http.StatusCreated, u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	u, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		web.Error(w, err)
		return
	}

	setSessionCookie(w, token)
	web.JSON(w, http.StatusOK, u)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	web.Message(w, http.StatusOK, "logged out")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		web.Error(w, apperr.Permission("authentication required"))
		return
	}
	u, err := h.svc.GetUser(r.Context(), id.ID)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, u)
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	actor, ok := FromContext(r.Context())
	if !ok {
		web.Error(w, apperr.Permission("authentication required"))
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), actor, req.Name, req.Email)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, u)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, _ := FromContext(r.Context())
	users, err := h.svc.ListUsers(r.Context(), actor)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, users)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func RegisterRoutes(r chi.Router, h *Handler, mw *Middleware) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.With(mw.RequireAuth).Get("/auth/me", h.Me)
	r.With(mw.RequireAuth).Put("/auth/me", h.UpdateMe)
	r.With(mw.RequireAdmin).Get("/users", h.ListUsers)
}
