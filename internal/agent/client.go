package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"healthai-backend/internal/config"
)

// ErrEmptyCompletion is returned when the model responds without any
// usable candidate text. Callers substitute their own fallback message.
var ErrEmptyCompletion = errors.New("completion service returned no text")

// CompletionClient is the black-box text-completion function the AI
// features are built on. No retry or streaming contract.
type CompletionClient interface {
	Complete(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type geminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(cfg config.GeminiConfig) CompletionClient {
	return &geminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NewGeminiClientWithBaseURL exists for tests that point the client at
// an httptest server.
func NewGeminiClientWithBaseURL(cfg config.GeminiConfig, baseURL string) CompletionClient {
	c := NewGeminiClient(cfg).(*geminiClient)
	c.baseURL = baseURL
	return c
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *geminiClient) Complete(ctx context.Context, systemInstruction, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("completion service api key is not configured")
	}

	text := prompt
	if systemInstruction != "" {
		text = systemInstruction + "\n\n" + prompt
	}
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			// Deterministic-leaning output for medical content.
			Temperature:     0.3,
			MaxOutputTokens: 2000,
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", ErrEmptyCompletion
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("completion service error: %s", msg)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}
	text = parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
