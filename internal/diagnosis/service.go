package diagnosis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"healthai-backend/internal/agent"
	"healthai-backend/internal/apperr"
)

// FallbackMessage is substituted when the completion service returns
// nothing usable.
const FallbackMessage = "We could not generate a response at this time. Please try again later, and consult a healthcare professional for any urgent concerns."

const disclaimer = `IMPORTANT: Always include the following disclaimer: "This is not a medical diagnosis. Please consult with a healthcare professional for proper evaluation and treatment."`

const cacheTTL = time.Hour

type SymptomsInput struct {
	Symptoms       string `json:"symptoms"`
	Age            int    `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	MedicalHistory string `json:"medicalHistory,omitempty"`
}

type AssessmentAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Service interface {
	DiagnoseSymptoms(ctx context.Context, in SymptomsInput) (string, error)
	AssessMentalHealth(ctx context.Context, answers []AssessmentAnswer) (string, error)
	AnalyzeReport(ctx context.Context, content string) (string, error)
}

type service struct {
	ai     agent.CompletionClient
	cache  *redis.Client
	logger *zap.Logger
}

// NewService accepts a nil cache; completions are then fetched fresh
// on every call.
func NewService(ai agent.CompletionClient, cache *redis.Client, logger *zap.Logger) Service {
	return &service{ai: ai, cache: cache, logger: logger}
}

func (s *service) DiagnoseSymptoms(ctx context.Context, in SymptomsInput) (string, error) {
	if len(strings.TrimSpace(in.Symptoms)) < 5 {
		return "", apperr.Validation("symptoms description is too short or empty")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I need a medical assessment based on the following symptoms: %s", in.Symptoms)
	if in.Age > 0 {
		fmt.Fprintf(&b, "\nPatient age: %d", in.Age)
	}
	if in.Gender != "" {
		fmt.Fprintf(&b, "\nPatient gender: %s", in.Gender)
	}
	if in.MedicalHistory != "" {
		fmt.Fprintf(&b, "\nMedical history: %s", in.MedicalHistory)
	}
	b.WriteString("\n\nPlease provide: 1) A preliminary assessment, 2) A list of possible conditions, 3) Recommendations for the patient.")

	system := "You are a highly specialized medical AI assistant providing preliminary assessments of medical symptoms. " + disclaimer
	return s.complete(ctx, system, b.String())
}

func (s *service) AssessMentalHealth(ctx context.Context, answers []AssessmentAnswer) (string, error) {
	if len(answers) == 0 {
		return "", apperr.Validation("assessment answers are required")
	}

	var b strings.Builder
	b.WriteString("A patient completed a mental-health self-assessment questionnaire. Their answers:\n")
	for _, a := range answers {
		if strings.TrimSpace(a.Question) == "" || strings.TrimSpace(a.Answer) == "" {
			return "", apperr.Validation("each answer needs a question and a response")
		}
		fmt.Fprintf(&b, "- %s: %s\n", a.Question, a.Answer)
	}
	b.WriteString("\nPlease provide a supportive summary of their current state, possible areas of concern, and gentle next-step suggestions.")

	system := "You are a compassionate mental-health support assistant. You never diagnose; you summarize and suggest professional follow-up where warranted. " + disclaimer
	return s.complete(ctx, system, b.String())
}

func (s *service) AnalyzeReport(ctx context.Context, content string) (string, error) {
	if len(strings.TrimSpace(content)) < 10 {
		return "", apperr.Validation("report content is too short or empty")
	}

	prompt := "Analyze the following medical report and summarize its key findings, flag any values outside normal ranges, and explain them in plain language:\n\n" + content
	system := "You are a medical AI assistant that summarizes medical reports for patients. " + disclaimer
	return s.complete(ctx, system, prompt)
}

func (s *service) complete(ctx context.Context, system, prompt string) (string, error) {
	key := cacheKey(system, prompt)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			return cached, nil
		}
	}

	text, err := s.ai.Complete(ctx, system, prompt)
	if errors.Is(err, agent.ErrEmptyCompletion) {
		return FallbackMessage, nil
	}
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, cacheTTL).Err(); err != nil {
			s.logger.Warn("failed to cache completion", zap.Error(err))
		}
	}
	return text, nil
}

func cacheKey(system, prompt string) string {
	sum := sha256.Sum256([]byte(system + "\x00" + prompt))
	return "ai:completion:" + hex.EncodeToString(sum[:])
}
