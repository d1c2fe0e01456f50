package config

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovestore/grove/internal/bias"
)

func TestWatchBiases_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "biases.yaml", "biases: []\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan []bias.Spec, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchBiases(ctx, path, nil, func(specs []bias.Spec) {
			reloaded <- specs
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`
biases:
  - pattern: "^x$"
    rewrite_to: "y"
`), 0o644))

	select {
	case specs := <-reloaded:
		require.Len(t, specs, 1)
		assert.Equal(t, "^x$", specs[0].Pattern)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the reloaded specs")
	}

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatchBiases_KeepsPreviousRulesOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "biases.yaml", "biases: []\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan []bias.Spec, 4)
	go func() {
		_ = WatchBiases(ctx, path, nil, func(specs []bias.Spec) {
			reloaded <- specs
		})
	}()

	time.Sleep(100 * time.Millisecond)

	// A malformed write is logged and skipped, not delivered.
	require.NoError(t, os.WriteFile(path, []byte("biases: [{{"), 0o644))

	select {
	case specs := <-reloaded:
		t.Fatalf("malformed file should not reload, got %v", specs)
	case <-time.After(1 * time.Second):
	}
}

func TestWatchBiases_MissingDirectory(t *testing.T) {
	err := WatchBiases(context.Background(), "/nonexistent/dir/biases.yaml", nil, func([]bias.Spec) {})
	assert.Error(t, err)
}
