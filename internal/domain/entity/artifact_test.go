package entity

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBytes(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func TestNewArtifactRecordsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	writeBytes(t, path, 2048)

	art, err := NewArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, path, art.Path)
	assert.Equal(t, 2.0, art.SizeKB)
}

func TestNewArtifactMissingFile(t *testing.T) {
	_, err := NewArtifact(filepath.Join(t.TempDir(), "missing.gif"))
	assert.Error(t, err)
}

func TestDiscardRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	writeBytes(t, path, 512)

	art, err := NewArtifact(path)
	require.NoError(t, err)

	art.Discard()
	assert.NoFileExists(t, path)

	// Safe to repeat, and on nil.
	art.Discard()
	var gone *Artifact
	gone.Discard()
}

func TestMoveToTransfersOwnership(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.gif")
	dst := filepath.Join(dir, "dst.gif")
	writeBytes(t, src, 1024)

	art, err := NewArtifact(src)
	require.NoError(t, err)
	require.NoError(t, art.MoveTo(dst))

	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	// Ownership ended with the move: a late Discard must not touch dst.
	art.Discard()
	assert.FileExists(t, dst)

	assert.Error(t, art.MoveTo(dst))
}

func TestCopyToKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.gif")
	dst := filepath.Join(dir, "dst.gif")
	require.NoError(t, os.WriteFile(src, []byte("animated bytes"), 0644))

	art, err := NewArtifact(src)
	require.NoError(t, err)
	require.NoError(t, art.CopyTo(dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("animated bytes"), got)
	assert.FileExists(t, src)
}

func TestFailedResultAlwaysLoses(t *testing.T) {
	res := FailedResult(Strategy{Skip: 4, DelayMS: 20})

	assert.False(t, res.Success)
	assert.True(t, math.IsInf(res.SizeKB, 1))
	assert.Nil(t, res.Artifact)
	assert.Equal(t, 4, res.Strategy.Skip)
}
