package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	m := NewManager(http.NewServeMux(), cfg, nil)

	require.NoError(t, m.Start())
	assert.True(t, m.IsRunning())

	// A second start on a running manager is rejected.
	assert.Error(t, m.Start())

	require.NoError(t, m.Shutdown(context.Background()))
	assert.False(t, m.IsRunning())

	// Shutdown is idempotent and a closed manager cannot restart.
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Error(t, m.Start())
}

func TestManagerStartFailsOnBadAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "256.256.256.256:99999"
	m := NewManager(http.NewServeMux(), cfg, nil)
	assert.Error(t, m.Start())
}
