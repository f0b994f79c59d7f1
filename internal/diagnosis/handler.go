package diagnosis

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"healthai-backend/internal/auth"
	"healthai-backend/internal/platform/web"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type analysisResponse struct {
	Analysis string `json:"analysis"`
}

func (h *Handler) DiagnoseSymptoms(w http.ResponseWriter, r *http.Request) {
	var in SymptomsInput
	if err := web.Decode(r, &in); err != nil {
		web.Error(w, err)
		return
	}

	result, err := h.svc.DiagnoseSymptoms(r.Context(), in)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, analysisResponse{Analysis: result})
}

type assessmentRequest struct {
	Answers []AssessmentAnswer `json:"answers"`
}

func (h *Handler) AssessMentalHealth(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	result, err := h.svc.AssessMentalHealth(r.Context(), req.Answers)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, analysisResponse{Analysis: result})
}

type analyzeReportRequest struct {
	Content string `json:"content"`
}

func (h *Handler) AnalyzeReport(w http.ResponseWriter, r *http.Request) {
	var req analyzeReportRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, err)
		return
	}

	result, err := h.svc.AnalyzeReport(r.Context(), req.Content)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.JSON(w, http.StatusOK, analysisResponse{Analysis: result})
}

func RegisterRoutes(r chi.Router, h *Handler, mw *auth.Middleware) {
	r.With(mw.RequireAuth).Post("/ai/diagnose", h.DiagnoseSymptoms)
	r.With(mw.RequireAuth).Post("/ai/mental-health", h.AssessMentalHealth)
	r.With(mw.RequireAuth).Post("/ai/analyze-report", h.AnalyzeReport)
}
