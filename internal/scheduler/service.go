package scheduler

import (
	"time"

	"github.com/postforge/postforge/internal/archive"
	"github.com/postforge/postforge/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service handles scheduling of archive maintenance tasks
type Service struct {
	config  *config.Config
	archive *archive.Service
	cron    *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, archiveService *archive.Service) *Service {
	return &Service{
		config:  cfg,
		archive: archiveService,
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
	}
}

// Start begins the scheduled archive maintenance
func (s *Service) Start() error {
	if s.config.ArchiveRetentionDays <= 0 {
		logrus.Info("Archive retention disabled, scheduler not started")
		return nil
	}

	// Run the retention sweep daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 0 3 * * *", func() {
		logrus.Info("Starting scheduled archive retention sweep")
		removed, err := s.archive.Cleanup(s.config.ArchiveRetentionDays)
		if err != nil {
			logrus.Errorf("Archive retention sweep failed: %v", err)
			return
		}
		if removed > 0 {
			logrus.Infof("Archive retention sweep removed %d runs older than %d days", removed, s.config.ArchiveRetentionDays)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started, archive retention sweep runs daily (retention: %d days)", s.config.ArchiveRetentionDays)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
