package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooked-app/hooked-backend/internal/accounts/domain"
	"github.com/hooked-app/hooked-backend/internal/accounts/service"
)

type fakeService struct {
	registerID  string
	registerErr error
	loginRes    *service.LoginResult
	loginErr    error
}

func (f *fakeService) Register(ctx context.Context, email, password string) (string, error) {
	return f.registerID, f.registerErr
}

func (f *fakeService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return f.loginRes, f.loginErr
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).Register(r.Group("/api/v1"))
	return r
}

func post(t *testing.T, r *gin.Engine, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterCreated(t *testing.T) {
	r := newTestRouter(&fakeService{registerID: "abc123"})

	w := post(t, r, "/api/v1/accounts", `{"email":"a@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body["id"])
}

func TestRegisterRejectsBlankCredentials(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := post(t, r, "/api/v1/accounts", `{"email":"  ","password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEmailTakenIsConflict(t *testing.T) {
	r := newTestRouter(&fakeService{registerErr: domain.ErrEmailTaken})

	w := post(t, r, "/api/v1/accounts", `{"email":"a@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	r := newTestRouter(&fakeService{
		loginRes: &service.LoginResult{Token: "tok", AccountID: "abc123"},
	})

	w := post(t, r, "/api/v1/login", `{"email":"a@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "abc123", body["account_id"])
}

func TestLoginBadCredentialsIsUnauthorized(t *testing.T) {
	r := newTestRouter(&fakeService{loginErr: domain.ErrInvalidCredentials})

	w := post(t, r, "/api/v1/login", `{"email":"a@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	r := newTestRouter(&fakeService{loginErr: domain.ErrTooManyAttempts})

	w := post(t, r, "/api/v1/login", `{"email":"a@example.com","password":"pw"}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
