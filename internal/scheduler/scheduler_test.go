package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/hermes/internal/clients/alphavantage"
	"github.com/aristath/hermes/internal/events"
	testingpkg "github.com/aristath/hermes/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

type fakeEvicter struct {
	maxIdle time.Duration
	evicted int
}

func (f *fakeEvicter) EvictIdle(maxIdle time.Duration) int {
	f.maxIdle = maxIdle
	return f.evicted
}

func TestScheduler_AddJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}

	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
}

func TestScheduler_MaintenanceSchedulesParse(t *testing.T) {
	s := New(zerolog.Nop())
	for _, schedule := range []string{
		ScheduleSessionEviction,
		ScheduleCacheCleanup,
		ScheduleRequestBudgetReset,
		ScheduleWALCheck,
	} {
		assert.NoError(t, s.AddJob(schedule, &countingJob{}), schedule)
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(zerolog.Nop())
	failing := &countingJob{err: errors.New("boom")}

	assert.Error(t, s.RunNow(failing))
	assert.Equal(t, int32(1), failing.runs.Load())

	ok := &countingJob{}
	assert.NoError(t, s.RunNow(ok))
	assert.Equal(t, int32(1), ok.runs.Load())
}

func TestScheduler_FailedJobEmitsError(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	s := New(zerolog.Nop())
	s.SetEventManager(events.NewManager(bus, zerolog.Nop()))

	var got *events.Event
	bus.Subscribe(events.ErrorOccurred, func(e *events.Event) { got = e })

	require.Error(t, s.RunNow(&countingJob{err: errors.New("disk full")}))

	require.NotNil(t, got)
	assert.Equal(t, "scheduler", got.Module)
	assert.Equal(t, "disk full", got.Data["error"])
	assert.Equal(t, "counting", got.Data["context"].(map[string]interface{})["job"])
}

func TestSessionEvictionJob(t *testing.T) {
	evicter := &fakeEvicter{evicted: 3}
	job := NewSessionEvictionJob(evicter, 2*time.Hour, zerolog.Nop())

	assert.Equal(t, "session_eviction", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, 2*time.Hour, evicter.maxIdle)
}

func TestRequestBudgetResetJob(t *testing.T) {
	client := testingpkg.NewMockAlphaVantageClient()
	job := NewRequestBudgetResetJob(client, zerolog.Nop())

	assert.Equal(t, "request_budget_reset", job.Name())
	require.NoError(t, job.Run())
	assert.Equal(t, 1, client.Calls("ResetDailyCounter"))
	assert.Equal(t, alphavantage.DailyRequestLimit, client.GetRemainingRequests())
}

func TestCheckWALCheckpointsJob(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "cache")
	defer cleanup()

	job := NewCheckWALCheckpointsJob(zerolog.Nop(), db, nil)
	assert.Equal(t, "check_wal_checkpoints", job.Name())
	assert.NoError(t, job.Run())
}

func TestCheckWALCheckpointsJob_NoDatabases(t *testing.T) {
	job := NewCheckWALCheckpointsJob(zerolog.Nop())
	assert.NoError(t, job.Run())
}
