package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/infrastructure/config"
)

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "memory"}}

	repos, err := New(cfg)
	require.NoError(t, err)
	defer repos.Close()

	assert.NotNil(t, repos.Books)
	assert.NotNil(t, repos.Tx)

	ok, release, err := repos.Locker.TryLock(context.Background(), "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
