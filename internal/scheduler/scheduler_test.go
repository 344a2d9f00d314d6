package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fomastreeman/match-predictor/internal/models"
	"github.com/fomastreeman/match-predictor/internal/service"
)

type noopSource struct{}

func (noopSource) FetchMatches(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	return nil, nil
}
func (noopSource) Name() string    { return "noop" }
func (noopSource) IsEnabled() bool { return true }

type noopMatchRepo struct{}

func (noopMatchRepo) Create(ctx context.Context, match models.Match) error { return nil }
func (noopMatchRepo) CreateWithTx(ctx context.Context, tx pgx.Tx, match models.Match) error {
	return nil
}
func (noopMatchRepo) InsertBatch(ctx context.Context, matches []models.Match) (int, error) {
	return len(matches), nil
}
func (noopMatchRepo) GetAll(ctx context.Context) ([]models.Match, error) { return nil, nil }
func (noopMatchRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	return nil, nil
}
func (noopMatchRepo) GetByLeague(ctx context.Context, league string) ([]models.Match, error) {
	return nil, nil
}
func (noopMatchRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	svc := service.NewIngestionService(noopSource{}, noopMatchRepo{}, logger)
	return NewScheduler(svc, logger)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := newTestScheduler(t)
	assert.False(t, s.IsRunning())

	require.NoError(t, s.ScheduleIngestion("0 3 * * *", 7))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	assert.Error(t, s.Start(), "starting twice should fail")
	assert.Error(t, s.ScheduleIngestion("0 4 * * *", 7), "scheduling while running should fail")

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestSchedulerRejectsInvalidCronExpression(t *testing.T) {
	s := newTestScheduler(t)
	err := s.ScheduleIngestion("not a cron line", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron expression")
}

func TestSchedulerStartWithoutJobs(t *testing.T) {
	s := newTestScheduler(t)
	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no jobs scheduled")
}
