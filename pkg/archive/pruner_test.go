package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/ifccheck/pkg/engine"
)

type failingStorage struct {
	*MemoryStorage
	err error
}

func (f *failingStorage) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	return 0, f.err
}

func (f *failingStorage) DeleteOldest(ctx context.Context, keep int) (int64, error) {
	return 0, f.err
}

func newTestPruner(s Storage, cfg RetentionConfig) *Pruner {
	p := NewPruner(s, cfg)
	p.now = func() time.Time { return base }
	return p
}

func TestPruner_Prune(t *testing.T) {
	tests := []struct {
		name        string
		config      RetentionConfig
		wantDeleted int64
		wantLeft    []string
	}{
		{name: "no retention", config: RetentionConfig{}, wantDeleted: 0, wantLeft: []string{"d", "c", "b", "a"}},
		{name: "by age", config: RetentionConfig{Days: 3}, wantDeleted: 2, wantLeft: []string{"d", "c"}},
		{name: "by count", config: RetentionConfig{MaxRuns: 3}, wantDeleted: 1, wantLeft: []string{"d", "c", "b"}},
		{name: "age then count", config: RetentionConfig{Days: 7, MaxRuns: 1}, wantDeleted: 3, wantLeft: []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStorage()
			seed(t, s)

			deleted, err := newTestPruner(s, tt.config).Prune(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantDeleted, deleted)

			left, err := s.List(context.Background(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLeft, ids(left))
		})
	}
}

func TestPruner_Errors(t *testing.T) {
	boom := errors.New("boom")
	s := &failingStorage{MemoryStorage: NewMemoryStorage(), err: boom}

	_, err := newTestPruner(s, RetentionConfig{Days: 1}).Prune(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "age-based pruning failed")

	_, err = newTestPruner(s, RetentionConfig{MaxRuns: 1}).Prune(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count-based pruning failed")
}

func TestScheduler_Lifecycle(t *testing.T) {
	s := NewMemoryStorage()
	require.NoError(t, s.Store(context.Background(), record("a", 0, engine.StatusValid, "walls.yaml")))

	sched := NewScheduler(NewPruner(s, RetentionConfig{MaxRuns: 1, Schedule: "0 3 * * *"}))
	require.NoError(t, sched.Start(context.Background()))
	assert.True(t, sched.IsRunning())

	sched.Stop()
	assert.False(t, sched.IsRunning())

	// Stop is idempotent.
	sched.Stop()
}

func TestScheduler_StopsWithContext(t *testing.T) {
	sched := NewScheduler(NewPruner(NewMemoryStorage(), RetentionConfig{Schedule: "@every 1h"}))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sched.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !sched.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_EmptySchedule(t *testing.T) {
	sched := NewScheduler(NewPruner(NewMemoryStorage(), RetentionConfig{}))

	require.NoError(t, sched.Start(context.Background()))
	assert.False(t, sched.IsRunning())
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	sched := NewScheduler(NewPruner(NewMemoryStorage(), RetentionConfig{Schedule: "every tuesday"}))

	err := sched.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
	assert.False(t, sched.IsRunning())
}

func TestScheduler_RunPruning(t *testing.T) {
	s := NewMemoryStorage()
	seed(t, s)

	sched := NewScheduler(newTestPruner(s, RetentionConfig{MaxRuns: 2}))
	sched.runPruning(context.Background())

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
