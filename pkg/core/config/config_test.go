package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	require.Equal(t, float32(0.04), cfg.PeakThresh)
	require.Equal(t, float32(10.0), cfg.EdgeThresh)
	require.Equal(t, 3, cfg.NumIntervals)
	require.Equal(t, float32(1.6), cfg.Sigma0)
	require.Equal(t, float32(0.5), cfg.SigmaN)
	require.Equal(t, float32(0.8), cfg.NNThresh)
	require.Equal(t, float32(0.001), cfg.MinInlierRatio)
	require.Equal(t, float32(5.0), cfg.ErrThresh)
	require.Equal(t, 500, cfg.NumIter)
	require.Equal(t, 1, cfg.IcosahedronSubdivision)
	require.NoError(t, cfg.Validate())
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := New(
		WithPeakThresh(0.1),
		WithNumIntervals(5),
		WithSeed(42),
	)
	require.Equal(t, float32(0.1), cfg.PeakThresh)
	require.Equal(t, 5, cfg.NumIntervals)
	require.Equal(t, uint64(42), cfg.Seed)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := New(WithNumIntervals(0))
	require.Error(t, cfg.Validate())

	cfg = New(WithNNThresh(0))
	require.Error(t, cfg.Validate())

	cfg = New(WithMinInlierRatio(2))
	require.Error(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")

	want := New(WithPeakThresh(0.07), WithNumIter(200), WithSeed(99))
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("peak_thresh: 0.2\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, float32(0.2), got.PeakThresh)
	require.Equal(t, 3, got.NumIntervals)
}
