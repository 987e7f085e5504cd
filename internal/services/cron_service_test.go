package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/flight-planner/internal/config"
)

func setupCronTest(cfg config.ScheduleConfig) (*CronService, *memRoutes) {
	routes := backfillRoutes()
	airports := testAirports()
	logger := testLogger()

	backfill := NewScheduleBackfillService(routes, airports, cfg, logger)
	index := NewAirportIndexService(airports, logger)
	return NewCronService(backfill, index, cfg, logger), routes
}

func TestCronServiceStart(t *testing.T) {
	cfg := testScheduleConfig
	cfg.BackfillCron = "0 0 2 * * *"
	cfg.IndexRefreshCron = "0 30 * * * *"

	svc, _ := setupCronTest(cfg)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	status := svc.GetJobStatus()
	assert.Equal(t, true, status["running"])
	assert.Equal(t, 2, status["job_count"])

	names := []string{}
	for _, job := range status["jobs"].([]map[string]interface{}) {
		names = append(names, job["name"].(string))
	}
	assert.ElementsMatch(t, []string{jobScheduleBackfill, jobIndexRefresh}, names)
}

func TestCronServiceDisabledJobs(t *testing.T) {
	svc, _ := setupCronTest(testScheduleConfig)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	assert.Equal(t, 0, svc.GetJobStatus()["job_count"])
}

func TestCronServiceInvalidSpec(t *testing.T) {
	cfg := testScheduleConfig
	cfg.BackfillCron = "every night"

	svc, _ := setupCronTest(cfg)
	err := svc.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), jobScheduleBackfill)
}

func TestCronServiceJobs(t *testing.T) {
	svc, routes := setupCronTest(testScheduleConfig)

	result, err := svc.RunBackfillNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synthesized)
	assert.True(t, routes.get("CMB-DXB-UL").HasSchedule())

	svc.indexRefreshJob()
	assert.Equal(t, 6, svc.indexSvc.Size())

	// nothing left to price on a second pass
	svc.scheduleBackfillJob()
	assert.Equal(t, 1, routes.updates)
}

func TestCronServiceAuditCleanup(t *testing.T) {
	svc, _ := setupCronTest(testScheduleConfig)
	store := &memAudit{}
	audit := NewAuditService(store, testLogger())
	svc.WithAuditCleanup(audit, config.AuditConfig{Retention: time.Hour, CleanupCron: "0 15 3 * * *"})

	require.NoError(t, svc.Start())
	defer svc.Stop()
	assert.Equal(t, 1, svc.GetJobStatus()["job_count"])

	require.NoError(t, audit.Record(context.Background(), RequestMeta{}, AuditEvent{Action: AuditTripCreated}))
	require.NoError(t, audit.Record(context.Background(), RequestMeta{}, AuditEvent{Action: AuditTripDeleted}))
	store.entries[0].CreatedAt = time.Now().Add(-2 * time.Hour)

	svc.auditCleanupJob()
	require.Len(t, store.entries, 1)
	assert.Equal(t, AuditTripDeleted, store.entries[0].Action)
}
