package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hooked-app/hooked-backend/internal/projects/domain"
	"github.com/hooked-app/hooked-backend/internal/projects/repository"
	"github.com/hooked-app/hooked-backend/internal/projects/service"
)

// Service is the slice of the project service the handlers call.
type Service interface {
	Insert(ctx context.Context, p domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetAll(ctx context.Context) ([]domain.Project, error)
	GetActive(ctx context.Context) ([]domain.Project, error)
	GetInactive(ctx context.Context) ([]domain.Project, error)
	GetFiltered(ctx context.Context, active bool, grades, styles []string, sent domain.SentFilter) ([]domain.Project, error)
	Update(ctx context.Context, p domain.Project) error
	SaveAnnotations(ctx context.Context, projectID string, coords []domain.Coordinate) error
	Delete(ctx context.Context, id string) (*service.DeleteResult, error)
	UploadImage(ctx context.Context, data []byte, filename string) (string, error)
	GetSendsCount(ctx context.Context) (int64, error)
	GetSendsSummary(ctx context.Context) (*domain.SendsSummary, error)
	GetStylesSummary(ctx context.Context) ([]domain.StyleSummary, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) insert(c *gin.Context) {
	var p domain.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.Insert(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) listActive(c *gin.Context) {
	h.listByActivity(c, true)
}

func (h *Handler) listInactive(c *gin.Context) {
	h.listByActivity(c, false)
}

// listByActivity serves both the plain and the filtered listings: query
// params, when present, become filter terms.
func (h *Handler) listByActivity(c *gin.Context, active bool) {
	q := listQueryFrom(c)

	var items []domain.Project
	var err error
	if q.empty() {
		if active {
			items, err = h.svc.GetActive(c.Request.Context())
		} else {
			items, err = h.svc.GetInactive(c.Request.Context())
		}
	} else {
		items, err = h.svc.GetFiltered(c.Request.Context(), active, q.grades, q.styles, q.sent)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrBadID) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	var p domain.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	p.ID = c.Param("id")

	if err := h.svc.Update(c.Request.Context(), p); err != nil {
		c.JSON(updateStatus(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) saveAnnotations(c *gin.Context) {
	var req struct {
		Annotations []domain.Coordinate `json:"annotations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.svc.SaveAnnotations(c.Request.Context(), c.Param("id"), req.Annotations); err != nil {
		c.JSON(updateStatus(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	res, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(updateStatus(err), gin.H{"ok": false, "error": err.Error()})
		return
	}

	// Document deletion is authoritative; a media failure is reported but
	// never turns the call into an error.
	if res.MediaErr != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "media_error": res.MediaErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) sendsCount(c *gin.Context) {
	count, err := h.svc.GetSendsCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": count})
}

func (h *Handler) sendsSummary(c *gin.Context) {
	summary, err := h.svc.GetSendsSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "total": summary.Total, "by_grade": summary.ByGrade})
}

func (h *Handler) stylesSummary(c *gin.Context) {
	summary, err := h.svc.GetStylesSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "styles": summary})
}

func (h *Handler) uploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	url, err := h.svc.UploadImage(c.Request.Context(), data, header.Filename)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "url": url})
}

// updateStatus maps mutation errors onto HTTP statuses: validation errors are
// the client's fault, a missing document is 404, the rest is the store's.
func updateStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingID), errors.Is(err, domain.ErrBadID):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
