package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooked-app/hooked-backend/internal/projects/domain"
	"github.com/hooked-app/hooked-backend/internal/projects/repository"
	"github.com/hooked-app/hooked-backend/internal/projects/service"
)

type fakeService struct {
	Service

	activeCalls   int
	inactiveCalls int

	filtered struct {
		called bool
		active bool
		grades []string
		styles []string
		sent   domain.SentFilter
	}

	getErr    error
	deleteRes *service.DeleteResult
	deleteErr error
	updateErr error
	inserted  *domain.Project
}

func (f *fakeService) Insert(ctx context.Context, p domain.Project) error {
	f.inserted = &p
	return nil
}

func (f *fakeService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.Project{ID: id}, nil
}

func (f *fakeService) GetActive(ctx context.Context) ([]domain.Project, error) {
	f.activeCalls++
	return nil, nil
}

func (f *fakeService) GetInactive(ctx context.Context) ([]domain.Project, error) {
	f.inactiveCalls++
	return nil, nil
}

func (f *fakeService) GetFiltered(ctx context.Context, active bool, grades, styles []string, sent domain.SentFilter) ([]domain.Project, error) {
	f.filtered.called = true
	f.filtered.active = active
	f.filtered.grades = grades
	f.filtered.styles = styles
	f.filtered.sent = sent
	return nil, nil
}

func (f *fakeService) Update(ctx context.Context, p domain.Project) error {
	return f.updateErr
}

func (f *fakeService) Delete(ctx context.Context, id string) (*service.DeleteResult, error) {
	return f.deleteRes, f.deleteErr
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewHandler(svc).Register(api.Group("/projects"), api.Group("/stats"), api.Group("/images"))
	return r
}

func do(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInsertCreated(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodPost, "/api/v1/projects", `{"grade":"6B","is_active":true}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.inserted)
	assert.Equal(t, "6B", svc.inserted.Grade)
	assert.True(t, svc.inserted.IsActive)
}

func TestInsertRejectsBadBody(t *testing.T) {
	r := newTestRouter(&fakeService{})

	w := do(t, r, http.MethodPost, "/api/v1/projects", `{"grade":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListActiveWithoutQueryUsesPlainListing(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodGet, "/api/v1/projects/active", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.activeCalls)
	assert.False(t, svc.filtered.called)
}

func TestListInactiveDecodesFilterQuery(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodGet, "/api/v1/projects/inactive?grades=6A,7B&styles=crimpy&sent=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.inactiveCalls)
	require.True(t, svc.filtered.called)
	assert.False(t, svc.filtered.active)
	assert.Equal(t, []string{"6A", "7B"}, svc.filtered.grades)
	assert.Equal(t, []string{"crimpy"}, svc.filtered.styles)
	assert.Equal(t, domain.SentOnly, svc.filtered.sent)
}

func TestListActiveGarbageSentMeansAny(t *testing.T) {
	svc := &fakeService{}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodGet, "/api/v1/projects/active?sent=banana", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.filtered.called)
	assert.Equal(t, domain.SentAny, svc.filtered.sent)
}

func TestGetBadIDIsBadRequest(t *testing.T) {
	svc := &fakeService{getErr: domain.ErrBadID}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodGet, "/api/v1/projects/not-a-hex-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateNotFound(t *testing.T) {
	svc := &fakeService{updateErr: repository.ErrNotFound}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodPut, "/api/v1/projects/507f1f77bcf86cd799439011", `{"grade":"6C"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReportsMediaError(t *testing.T) {
	svc := &fakeService{
		deleteRes: &service.DeleteResult{MediaErr: errors.New("destroy rejected")},
	}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodDelete, "/api/v1/projects/507f1f77bcf86cd799439011", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "destroy rejected", body["media_error"])
}

func TestDeleteCleanResultOmitsMediaError(t *testing.T) {
	svc := &fakeService{deleteRes: &service.DeleteResult{}}
	r := newTestRouter(svc)

	w := do(t, r, http.MethodDelete, "/api/v1/projects/507f1f77bcf86cd799439011", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	_, hasMediaErr := body["media_error"]
	assert.False(t, hasMediaErr)
}
