package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthai-backend/internal/apperr"
	"healthai-backend/internal/auth"
	"healthai-backend/internal/platform/web"
)

// stubAuth resolves tokens from a fixed map so handler tests can mint
// sessions without signing real JWTs.
type stubAuth struct {
	sessions map[string]auth.Identity
}

func (s *stubAuth) Register(ctx context.Context, name, email, password string) (*auth.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*auth.User, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubAuth) GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) ListUsers(ctx context.Context, actor auth.Identity) ([]auth.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) UpdateProfile(ctx context.Context, actor auth.Identity, name, email string) (*auth.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuth) ParseToken(token string) (auth.Identity, error) {
	id, ok := s.sessions[token]
	if !ok {
		return auth.Identity{}, apperr.Permission("invalid or expired session")
	}
	return id, nil
}

type testServer struct {
	*httptest.Server
	repo *fakeRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := newFakeRepo()
	svc := newTestService(repo)

	stub := &stubAuth{sessions: map[string]auth.Identity{
		"patient-token": patient(),
		"admin-token":   admin(),
	}}

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc), auth.NewMiddleware(stub))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, web.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env web.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func bookingBody(date string) map[string]interface{} {
	return map[string]interface{}{
		"type": TypeAppointmentBooking,
		"data": map[string]string{
			"patientName":     "Jane Doe",
			"patientEmail":    "jane@example.com",
			"patientPhone":    "555-0101",
			"appointmentDate": date,
			"appointmentTime": "10:00 AM",
			"reasonForVisit":  "Recurring headaches",
		},
	}
}

func TestHandlerSubmitAuthenticated(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.do(t, http.MethodPost, "/requests", "patient-token", bookingBody("2025-03-01"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	created, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, string(TypeAppointmentBooking), created["type"])
}

func TestHandlerSubmitAnonymousBookingRejected(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.do(t, http.MethodPost, "/requests", "", bookingBody("2025-03-01"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestHandlerSubmitAnonymousContactInquiry(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]interface{}{
		"type": TypeContactInquiry,
		"data": map[string]string{
			"fullName": "John Roe",
			"email":    "john@example.com",
			"subject":  "Opening hours",
			"message":  "Are you open on Saturdays?",
		},
	}
	resp, env := ts.do(t, http.MethodPost, "/requests", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestHandlerSubmitStaleSessionRejected(t *testing.T) {
	ts := newTestServer(t)

	// An expired or forged cookie must not fall through to the
	// anonymous path; the client should re-login.
	resp, env := ts.do(t, http.MethodPost, "/requests", "stale-token", bookingBody("2025-03-01"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid or expired session", env.Message)
}

func TestHandlerListIsAdminOnly(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/requests", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/requests", "patient-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := ts.do(t, http.MethodGet, "/requests", "admin-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestHandlerProcessLifecycle(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodPost, "/requests", "patient-token", bookingBody("2025-03-01"))
	created := env.Data.(map[string]interface{})
	id := created["id"].(string)

	body := map[string]string{"status": "approved", "reviewNotes": "confirmed by phone"}
	resp, env := ts.do(t, http.MethodPut, fmt.Sprintf("/requests/%s/process", id), "admin-token", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	processed := env.Data.(map[string]interface{})
	assert.Equal(t, "approved", processed["status"])
	assert.Equal(t, "confirmed by phone", processed["reviewNotes"])

	// A second decision hits a terminal request and conflicts.
	resp, env = ts.do(t, http.MethodPut, fmt.Sprintf("/requests/%s/process", id), "admin-token", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestHandlerProcessInvalidID(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"status": "approved"}
	resp, _ := ts.do(t, http.MethodPut, "/requests/not-a-uuid/process", "admin-token", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerDeleteIsAdminOnly(t *testing.T) {
	ts := newTestServer(t)

	_, env := ts.do(t, http.MethodPost, "/requests", "patient-token", bookingBody("2025-03-01"))
	created := env.Data.(map[string]interface{})
	id := created["id"].(string)

	resp, _ := ts.do(t, http.MethodDelete, "/requests/"+id, "patient-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env = ts.do(t, http.MethodDelete, "/requests/"+id, "admin-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "request deleted", env.Message)
}
