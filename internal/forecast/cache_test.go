package forecast

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv-forecast/internal/config"
	"pv-forecast/internal/model"
)

func TestResultCache(t *testing.T) {
	c := NewResultCache(time.Minute)
	now := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Nil(t, c.Latest())

	first := &Result{RunID: "first"}
	c.Set("a", first)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Same(t, first, c.Latest())

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Same(t, first, c.Latest())

	_, ok = c.Find("first")
	assert.False(t, ok, "expired")

	second := &Result{RunID: "second"}
	c.Set("b", second)
	assert.Equal(t, 1, c.Len(), "expired entries are dropped on Set")
	assert.Same(t, second, c.Latest())
	got, ok = c.Find("second")
	require.True(t, ok)
	assert.Same(t, second, got)

	c.Clear()
	assert.Nil(t, c.Latest())
	assert.Zero(t, c.Len())
}

func TestNilResultCache(t *testing.T) {
	var c *ResultCache
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.Set("a", &Result{})
	_, ok = c.Find("a")
	assert.False(t, ok)
	c.Clear()
	assert.Nil(t, c.Latest())
	assert.Zero(t, c.Len())
}

func TestCacheKey(t *testing.T) {
	dir := t.TempDir()
	hourly := filepath.Join(dir, "hourly.csv")
	require.NoError(t, os.WriteFile(hourly, []byte("x"), 0o644))
	in := model.Inputs{HourlyIrradiance: hourly, MonthlyReference: "m.csv", MeteredDir: "metered", ArchiveDir: "archive"}

	cfg := config.Default()
	k1 := CacheKey(in, cfg)
	assert.Len(t, k1, 64)
	assert.Equal(t, k1, CacheKey(in, config.Default()))

	cfg.System.CapacityKW = 4
	assert.NotEqual(t, k1, CacheKey(in, cfg))

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(hourly, later, later))
	assert.NotEqual(t, k1, CacheKey(in, config.Default()))
}
