package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthai-backend/internal/config"
)

func testConfig() config.GeminiConfig {
	return config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-pro",
		Timeout: 5 * time.Second,
	}
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-pro:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "Drink fluids and rest."}},
				}},
			},
		})
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(testConfig(), srv.URL)
	got, err := client.Complete(context.Background(), "You are a medical assistant.", "I have a cold.")
	require.NoError(t, err)
	assert.Equal(t, "Drink fluids and rest.", got)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.True(t, strings.HasPrefix(captured.Contents[0].Parts[0].Text, "You are a medical assistant."))
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "I have a cold.")
	require.NotNil(t, captured.GenerationConfig)
	assert.InDelta(t, 0.3, captured.GenerationConfig.Temperature, 0.001)
	assert.Equal(t, 2000, captured.GenerationConfig.MaxOutputTokens)
}

func TestCompleteEmptyCandidatesIsErrEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.Complete(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteMalformedBodyIsErrEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.Complete(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	client := NewGeminiClientWithBaseURL(testConfig(), srv.URL)
	_, err := client.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCompletion)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCompleteMissingAPIKeyFailsFast(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	client := NewGeminiClientWithBaseURL(cfg, "http://127.0.0.1:0")
	_, err := client.Complete(context.Background(), "", "hello")
	assert.Error(t, err)
}
