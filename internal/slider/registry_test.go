package slider_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"announceslider/internal/metrics"
	"announceslider/internal/slider"
)

func TestRegistry_Lifecycle(t *testing.T) {
	f := newFakeFetcher(map[int]reply{1: {n: 1}})
	m := metrics.New(prometheus.NewRegistry())
	reg := slider.NewRegistry(slider.RegistryConfig{
		Fetcher: f,
		Metrics: m,
		APIURL:  func() string { return "http://api.local" },
	})

	s, err := reg.Open(slider.Options{OrganizationID: "acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "http://api.local", s.Options.APIURL)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenSliders))
	assert.Equal(t, slider.StateIdle, s.Controller.Snapshot().State)

	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	closed, err := reg.Close(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 1, f.cleared)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OpenSliders))

	closed, err = reg.Close(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, closed)
}

func TestRegistry_OpenRejectsInvalidOptions(t *testing.T) {
	reg := slider.NewRegistry(slider.RegistryConfig{Fetcher: newFakeFetcher(nil)})

	_, err := reg.Open(slider.Options{OrganizationID: "acme", SliderPosition: "bottom"})
	require.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_CloseAll(t *testing.T) {
	f := newFakeFetcher(nil)
	reg := slider.NewRegistry(slider.RegistryConfig{Fetcher: f})
	for i := 0; i < 3; i++ {
		_, err := reg.Open(slider.Options{OrganizationID: "acme"})
		require.NoError(t, err)
	}

	reg.CloseAll(context.Background())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 3, f.cleared)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_CloseIdle(t *testing.T) {
	f := newFakeFetcher(nil)
	m := metrics.New(prometheus.NewRegistry())
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	reg := slider.NewRegistry(slider.RegistryConfig{Fetcher: f, Metrics: m, Clock: clock.Now})

	active, err := reg.Open(slider.Options{OrganizationID: "acme"})
	require.NoError(t, err)
	abandoned, err := reg.Open(slider.Options{OrganizationID: "acme"})
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, ok := reg.Get(active.ID)
	require.True(t, ok)
	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, reg.CloseIdle(context.Background(), 30*time.Minute))
	assert.Equal(t, 1, reg.Len())
	_, ok = reg.Get(abandoned.ID)
	assert.False(t, ok)
	_, ok = reg.Get(active.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, f.cleared)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenSliders))
	assert.Equal(t, slider.PaginationState{CurrentPage: 1, HasMore: true, State: slider.StateIdle}, abandoned.Controller.Snapshot())
	assert.False(t, abandoned.Controller.LoadAnnouncements(context.Background()))

	assert.Equal(t, 0, reg.CloseIdle(context.Background(), 30*time.Minute))
}

func TestRegistry_MaxSessions(t *testing.T) {
	f := newFakeFetcher(nil)
	reg := slider.NewRegistry(slider.RegistryConfig{Fetcher: f, MaxSessions: 2})

	first, err := reg.Open(slider.Options{OrganizationID: "acme"})
	require.NoError(t, err)
	_, err = reg.Open(slider.Options{OrganizationID: "acme"})
	require.NoError(t, err)

	_, err = reg.Open(slider.Options{OrganizationID: "acme"})
	require.ErrorIs(t, err, slider.ErrTooManySliders)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, 0, f.cleared)

	_, err = reg.Close(context.Background(), first.ID)
	require.NoError(t, err)
	_, err = reg.Open(slider.Options{OrganizationID: "acme"})
	assert.NoError(t, err)
}
