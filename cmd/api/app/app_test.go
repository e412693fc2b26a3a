package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAppEnv(t *testing.T, lines string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(lines), 0o600))
	return dir
}

func TestApp_NewAndRun(t *testing.T) {
	dir := writeAppEnv(t, "")
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "users.db"))
	t.Setenv("HTTP_PORT", "0")
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(dir, "app.log"))

	ctx, cancel := context.WithCancel(context.Background())
	a, err := New(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", a.Config.DB.Driver)
	assert.Nil(t, a.Server.GRPC)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("application did not stop")
	}

	logged, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "application shutdown complete")
}

func TestApp_NewInvalidConfig(t *testing.T) {
	dir := writeAppEnv(t, "DB_DRIVER=oracle\n")
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("LOG_OUTPUT_PATH", filepath.Join(dir, "app.log"))

	_, err := New(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}
