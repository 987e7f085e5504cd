package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tripwise/flight-planner/internal/config"
)

const (
	jobScheduleBackfill = "schedule_backfill"
	jobIndexRefresh     = "airport_index_refresh"
	jobAuditCleanup     = "audit_cleanup"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron        *cron.Cron
	backfillSvc *ScheduleBackfillService
	indexSvc    *AirportIndexService
	auditSvc    *AuditService
	cfg         config.ScheduleConfig
	auditCfg    config.AuditConfig
	logger      *logrus.Logger

	mu      sync.Mutex
	entries map[cron.EntryID]string
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewCronService creates a new CronService
func NewCronService(
	backfillSvc *ScheduleBackfillService,
	indexSvc *AirportIndexService,
	cfg config.ScheduleConfig,
	logger *logrus.Logger,
) *CronService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CronService{
		// second minute hour day month weekday
		cron:        cron.New(cron.WithSeconds()),
		backfillSvc: backfillSvc,
		indexSvc:    indexSvc,
		cfg:         cfg,
		logger:      logger,
		entries:     make(map[cron.EntryID]string),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// WithAuditCleanup adds the audit retention job; call before Start
func (s *CronService) WithAuditCleanup(auditSvc *AuditService, cfg config.AuditConfig) *CronService {
	s.auditSvc = auditSvc
	s.auditCfg = cfg
	return s
}

// Start registers the jobs and starts the scheduler. An empty cron spec
// disables its job.
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	if s.cfg.BackfillCron != "" {
		if err := s.schedule(jobScheduleBackfill, s.cfg.BackfillCron, s.scheduleBackfillJob); err != nil {
			return err
		}
	}
	if s.cfg.IndexRefreshCron != "" {
		if err := s.schedule(jobIndexRefresh, s.cfg.IndexRefreshCron, s.indexRefreshJob); err != nil {
			return err
		}
	}
	if s.auditSvc != nil && s.auditCfg.CleanupCron != "" {
		if err := s.schedule(jobAuditCleanup, s.auditCfg.CleanupCron, s.auditCleanupJob); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

func (s *CronService) schedule(name, spec string, job func()) error {
	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}

	s.mu.Lock()
	s.entries[id] = name
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"job": name, "spec": spec}).Info("Scheduled job")
	return nil
}

// Stop cancels running jobs and waits for them to return
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// scheduleBackfillJob synthesizes schedules for unpriced routes
func (s *CronService) scheduleBackfillJob() {
	log := s.logger.WithField("job", jobScheduleBackfill)
	log.Info("[CRON] Starting schedule backfill job")

	result, err := s.backfillSvc.Run(s.ctx, nil)
	switch {
	case errors.Is(err, ErrBackfillRunning):
		log.Warn("[CRON] Backfill already running, skipping")
		return
	case err != nil:
		log.WithError(err).Error("[CRON] Schedule backfill failed")
		return
	}

	log.WithFields(logrus.Fields{
		"synthesized": result.Synthesized,
		"duration":    result.Duration.String(),
	}).Info("[CRON] Schedule backfill finished")
}

// indexRefreshJob reloads the nearest-airport index
func (s *CronService) indexRefreshJob() {
	log := s.logger.WithField("job", jobIndexRefresh)
	startTime := time.Now()

	count, err := s.indexSvc.Rebuild(s.ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Airport index refresh failed")
		return
	}

	log.WithFields(logrus.Fields{
		"airports": count,
		"duration": time.Since(startTime).String(),
	}).Info("[CRON] Airport index refreshed")
}

// auditCleanupJob drops audit entries past retention
func (s *CronService) auditCleanupJob() {
	log := s.logger.WithField("job", jobAuditCleanup)

	if _, err := s.auditSvc.Cleanup(s.ctx, s.auditCfg.Retention); err != nil {
		log.WithError(err).Error("[CRON] Audit cleanup failed")
	}
}

// RunBackfillNow runs the schedule backfill immediately
func (s *CronService) RunBackfillNow(ctx context.Context) (*BackfillResult, error) {
	s.logger.Info("[MANUAL] Running schedule backfill now...")
	return s.backfillSvc.Run(ctx, nil)
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"name":     s.entries[entry.ID],
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
