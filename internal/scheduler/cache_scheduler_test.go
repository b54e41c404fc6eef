package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/wait"

	"announceslider/internal/cache"
	"announceslider/internal/model"
	"announceslider/pkg/logger"
)

type countingPruner struct{ calls atomic.Int32 }

func (p *countingPruner) Prune() int {
	p.calls.Add(1)
	return 0
}

func TestCacheScheduler_PrunesPeriodically(t *testing.T) {
	p := &countingPruner{}
	s := NewCacheScheduler(p, 5*time.Millisecond, logger.NewNop())
	s.Start()

	err := wait.PollUntilContextTimeout(context.Background(), 5*time.Millisecond, 2*time.Second, true, func(context.Context) (bool, error) {
		return p.calls.Load() >= 3, nil
	})
	require.NoError(t, err)

	s.Stop()
	after := p.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, p.calls.Load())
	s.Stop()
}

func TestCacheScheduler_RemovesStaleEntries(t *testing.T) {
	c := cache.NewMemory(20 * time.Millisecond)
	require.NoError(t, c.Set(context.Background(), "acme-1-10", []model.AnnouncementItem{{ID: "a"}}))

	s := NewCacheScheduler(c, 5*time.Millisecond, logger.NewNop())
	s.Start()
	defer s.Stop()

	err := wait.PollUntilContextTimeout(context.Background(), 5*time.Millisecond, 2*time.Second, true, func(context.Context) (bool, error) {
		return c.Len() == 0, nil
	})
	require.NoError(t, err)
}
