package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startWatch runs Watch on a fresh config file until the test ends.
func startWatch(t *testing.T) (string, <-chan *Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveTo(path))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { reloaded <- c })
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	return path, reloaded
}

func assertNoReload(t *testing.T, reloaded <-chan *Config) {
	t.Helper()
	select {
	case cfg := <-reloaded:
		t.Fatalf("unexpected config delivered: %+v", cfg.Camera)
	case <-time.After(4 * settleDelay):
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path, reloaded := startWatch(t)
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  configure_radius: 12\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, float32(12), cfg.Camera.ConfigureRadius)
		assert.Equal(t, 60, cfg.Camera.SweepFrames)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
	assertNoReload(t, reloaded)
}

func TestWatchCollapsesBurstOfWrites(t *testing.T) {
	path, reloaded := startWatch(t)
	for _, radius := range []string{"8", "9", "10"} {
		require.NoError(t, os.WriteFile(path, []byte("camera:\n  configure_radius: "+radius+"\n"), 0644))
	}

	select {
	case cfg := <-reloaded:
		assert.Equal(t, float32(10), cfg.Camera.ConfigureRadius)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
	assertNoReload(t, reloaded)
}

func TestWatchSkipsEmptyFile(t *testing.T) {
	path, reloaded := startWatch(t)
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assertNoReload(t, reloaded)
}

func TestWatchSkipsInvalidConfig(t *testing.T) {
	path, reloaded := startWatch(t)
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  sweep_frames: 0\n"), 0644))
	assertNoReload(t, reloaded)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), "/nonexistent/dir/config.yaml", func(*Config) {})
	assert.Error(t, err)
}
