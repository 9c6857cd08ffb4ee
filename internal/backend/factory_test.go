package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pennywise/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		SQLiteDBPath:  filepath.Join(t.TempDir(), "pennywise.db"),
		TimeZone:      "Asia/Kolkata",
		TargetPercent: 50,
		SessionTTL:    time.Hour,
		Cache:         config.Cache{TTL: time.Minute, Size: 10},
		Gemini:        config.Gemini{Timeout: time.Second},
	}
}

func TestBuildLocalOnly(t *testing.T) {
	res, err := Build(context.Background(), testConfig(t), nil)
	require.NoError(t, err)

	assert.NotNil(t, res.Store)
	assert.Nil(t, res.AMQP)
	assert.Nil(t, res.Publisher())
	assert.Equal(t, "Asia/Kolkata", res.Location.String())
	assert.EqualValues(t, 50, res.Calc.Percent)
	assert.NotNil(t, res.Services.Auth)
	assert.NotNil(t, res.Services.Predictions)
	require.NoError(t, res.Store.Ping(context.Background()))

	require.NoError(t, res.Cleanup())
	assert.Error(t, res.Store.Ping(context.Background()), "store should be closed")
	require.NoError(t, res.Cleanup(), "second cleanup is a no-op")
}

func TestBuildFallsBackWhenRedisUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.RedisURL = "redis://127.0.0.1:1/0"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := Build(ctx, cfg, nil)
	require.NoError(t, err)
	defer res.Cleanup()

	assert.NotNil(t, res.Cache)
	assert.NotNil(t, res.Cache.History)
}

func TestBuildNilConfig(t *testing.T) {
	_, err := Build(context.Background(), nil, nil)
	assert.Error(t, err)
}
