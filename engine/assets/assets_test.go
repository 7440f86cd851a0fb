package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderWatcherReportsTrackedWrites(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "simple_shader.vert.spv")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(vert, []byte{1, 2, 3, 4}, 0o644))

	sw, err := NewShaderWatcher(vert)
	require.NoError(t, err)
	defer sw.Close()

	assert.Empty(t, sw.Changed())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(vert, []byte{5, 6, 7, 8}, 0o644))

	want, err := filepath.Abs(vert)
	require.NoError(t, err)

	var seen []string
	assert.Eventually(t, func() bool {
		seen = append(seen, sw.Changed()...)
		return len(seen) > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, seen, want)
	assert.NotContains(t, seen, filepath.Join(filepath.Dir(want), "notes.txt"))
}

func TestShaderWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewShaderWatcher(filepath.Join(dir, "a.spv"))
	require.NoError(t, err)
	require.NoError(t, sw.Close())
	assert.NoError(t, sw.Close())
}

func TestShaderWatcherNeedsFiles(t *testing.T) {
	_, err := NewShaderWatcher()
	assert.Error(t, err)
}
