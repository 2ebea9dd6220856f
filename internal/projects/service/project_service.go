package service

import (
	"context"

	"github.com/hooked-app/hooked-backend/internal/logging"
	"github.com/hooked-app/hooked-backend/internal/media"
	"github.com/hooked-app/hooked-backend/internal/projects/domain"
)

// Repository is the persistence surface the service needs; satisfied by
// repository.ProjectRepository.
type Repository interface {
	Insert(ctx context.Context, p domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetAll(ctx context.Context) ([]domain.Project, error)
	GetActive(ctx context.Context) ([]domain.Project, error)
	GetInactive(ctx context.Context) ([]domain.Project, error)
	GetFiltered(ctx context.Context, active bool, grades, styles []string, sent domain.SentFilter) ([]domain.Project, error)
	Update(ctx context.Context, p domain.Project) error
	SaveAnnotations(ctx context.Context, projectID string, coords []domain.Coordinate) error
	Delete(ctx context.Context, id string) (imagePath string, err error)
	GetSendsCount(ctx context.Context) (int64, error)
	GetSendsSummary(ctx context.Context) (*domain.SendsSummary, error)
	GetStylesSummary(ctx context.Context) ([]domain.StyleSummary, error)
}

// OrphanRecorder records remote images whose deletion failed after the owning
// document was already removed, so a later sweep can retry them.
type OrphanRecorder interface {
	Record(ctx context.Context, imageURL, reason string) error
}

// DeleteResult reports the outcome of a project deletion. The document delete
// is authoritative; MediaErr is set when the subsequent remote image delete
// failed and was recorded instead of surfaced.
type DeleteResult struct {
	MediaErr error
}

// ProjectService glues the project repository to the media store.
type ProjectService struct {
	repo    Repository
	media   media.Store
	orphans OrphanRecorder
	logger  logging.Logger
}

func NewProjectService(repo Repository, store media.Store, orphans OrphanRecorder, logger logging.Logger) *ProjectService {
	return &ProjectService{
		repo:    repo,
		media:   store,
		orphans: orphans,
		logger:  logger.With("module", "projects"),
	}
}

func (s *ProjectService) Insert(ctx context.Context, p domain.Project) error {
	return s.repo.Insert(ctx, p)
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]domain.Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *ProjectService) GetActive(ctx context.Context) ([]domain.Project, error) {
	return s.repo.GetActive(ctx)
}

func (s *ProjectService) GetInactive(ctx context.Context) ([]domain.Project, error) {
	return s.repo.GetInactive(ctx)
}

func (s *ProjectService) GetFiltered(ctx context.Context, active bool, grades, styles []string, sent domain.SentFilter) ([]domain.Project, error) {
	return s.repo.GetFiltered(ctx, active, grades, styles, sent)
}

func (s *ProjectService) Update(ctx context.Context, p domain.Project) error {
	return s.repo.Update(ctx, p)
}

func (s *ProjectService) SaveAnnotations(ctx context.Context, projectID string, coords []domain.Coordinate) error {
	return s.repo.SaveAnnotations(ctx, projectID, coords)
}

// Delete removes the project document, then makes a best-effort attempt to
// delete its remote image. A media failure never rolls back or blocks the
// document deletion: it is logged, recorded for the orphan sweep, and
// reported through DeleteResult.
func (s *ProjectService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	imagePath, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	res := &DeleteResult{}
	if imagePath == "" || imagePath == "No Image" {
		return res, nil
	}

	if err := s.media.Delete(ctx, imagePath); err != nil {
		s.logger.Warn(ctx, "remote image delete failed", "image", imagePath, "error", err.Error())
		if s.orphans != nil {
			if rerr := s.orphans.Record(ctx, imagePath, err.Error()); rerr != nil {
				s.logger.Error(ctx, "recording orphaned image failed", "image", imagePath, "error", rerr.Error())
			}
		}
		res.MediaErr = err
	}

	return res, nil
}

func (s *ProjectService) UploadImage(ctx context.Context, data []byte, filename string) (string, error) {
	return s.media.Upload(ctx, data, filename)
}

func (s *ProjectService) GetSendsCount(ctx context.Context) (int64, error) {
	return s.repo.GetSendsCount(ctx)
}

func (s *ProjectService) GetSendsSummary(ctx context.Context) (*domain.SendsSummary, error) {
	return s.repo.GetSendsSummary(ctx)
}

func (s *ProjectService) GetStylesSummary(ctx context.Context) ([]domain.StyleSummary, error) {
	return s.repo.GetStylesSummary(ctx)
}
