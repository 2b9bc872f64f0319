package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/repository"
)

// Scheduler periodically re-runs episode enrichment. Enrichment failures are
// never retried inline; this sweep is the opportunistic second chance for
// episodes whose detail fetch failed when their series was saved.
type Scheduler struct {
	cron     *cron.Cron
	db       *models.Database
	episodes *repository.EpisodeRepository
	spec     string
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler. An empty spec disables the sweep.
func NewScheduler(db *models.Database, episodes *repository.EpisodeRepository, spec string, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		episodes: episodes,
		spec:     spec,
		logger:   logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("Enrichment sweep disabled")
		return nil
	}

	s.logger.WithField("cron", s.spec).Info("Starting scheduler")

	if _, err := s.cron.AddFunc(s.spec, s.runEnrichmentSweep); err != nil {
		return fmt.Errorf("failed to add enrichment sweep job: %w", err)
	}

	s.cron.Start()

	// Catch up on anything left unfetched by a previous run
	go s.runEnrichmentSweep()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runEnrichmentSweep enriches every series that still has unfetched episodes
func (s *Scheduler) runEnrichmentSweep() {
	ctx := context.Background()

	seriesIDs, err := s.db.GetSeriesIDsWithUnfetchedEpisodes()
	if err != nil {
		s.logger.WithError(err).Error("Failed to find series needing enrichment")
		return
	}

	if len(seriesIDs) == 0 {
		s.logger.Debug("No series need enrichment")
		return
	}

	s.logger.WithField("count", len(seriesIDs)).Info("Running enrichment sweep")

	for _, seriesID := range seriesIDs {
		if err := s.episodes.Enrich(ctx, seriesID); err != nil {
			s.logger.WithError(err).WithField("series_id", seriesID).Error("Enrichment sweep failed for series")
		}
	}

	s.logger.Info("Enrichment sweep completed")
}
