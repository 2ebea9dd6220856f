package cleanup

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"

	"github.com/hooked-app/hooked-backend/internal/logging"
	"github.com/hooked-app/hooked-backend/internal/media"
)

// OrphanStore is the slice of the orphan repository the sweeper needs.
type OrphanStore interface {
	List(ctx context.Context) ([]Orphan, error)
	Remove(ctx context.Context, id string) error
}

// Sweeper periodically retries the recorded orphan deletions.
type Sweeper struct {
	orphans OrphanStore
	media   media.Store
	logger  logging.Logger
	spec    string
	cron    *cron.Cron
}

func NewSweeper(orphans OrphanStore, store media.Store, spec string, logger logging.Logger) *Sweeper {
	return &Sweeper{
		orphans: orphans,
		media:   store,
		logger:  logger.With("module", "cleanup"),
		spec:    spec,
	}
}

// Start schedules the sweep; the spec uses seconds-precision cron syntax.
func (s *Sweeper) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, func() {
		s.Sweep(context.Background())
	})
	if err != nil {
		return err
	}

	s.logger.Info(context.Background(), "orphan sweeper scheduled", "spec", s.spec)
	c.Start()
	s.cron = c
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep retries every recorded orphan once. Successes and permanently
// malformed URLs are pruned; transient failures stay for the next run.
// Failures only log.
func (s *Sweeper) Sweep(ctx context.Context) {
	orphans, err := s.orphans.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "listing orphans failed", "error", err.Error())
		return
	}

	for _, o := range orphans {
		err := s.media.Delete(ctx, o.ImageURL)
		if err != nil && !errors.Is(err, media.ErrBadImageURL) {
			s.logger.Warn(ctx, "orphan delete retry failed", "image", o.ImageURL, "error", err.Error())
			continue
		}
		if err != nil {
			// A malformed URL will never succeed; drop the record.
			s.logger.Warn(ctx, "dropping unfixable orphan", "image", o.ImageURL, "error", err.Error())
		}

		if err := s.orphans.Remove(ctx, o.ID); err != nil {
			s.logger.Error(ctx, "pruning orphan record failed", "id", o.ID, "error", err.Error())
		}
	}
}
