// Package config holds the tunables recognized by every stage of the
// registration pipeline (pyramid construction, detection, extraction,
// matching, RANSAC), constructed via functional options in the style of
// pkg/core/math/filter/ahrs, with a YAML round-trip for the CLI driver.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	volerrors "github.com/itohio/volreg3d/pkg/core/errors"
)

// Config collects every option spec.md §6 recognizes.
type Config struct {
	PeakThresh             float32 `yaml:"peak_thresh"`
	EdgeThresh             float32 `yaml:"edge_thresh"`
	NumIntervals           int     `yaml:"num_intervals"`
	Sigma0                 float32 `yaml:"sigma_0"`
	SigmaN                 float32 `yaml:"sigma_n"`
	NumOctaves             int     `yaml:"num_octaves"`
	NNThresh               float32 `yaml:"nn_thresh"`
	MinInlierRatio         float32 `yaml:"min_inlier_ratio"`
	ErrThresh              float32 `yaml:"err_thresh"`
	NumIter                int     `yaml:"num_iter"`
	IcosahedronSubdivision int     `yaml:"icosahedron_subdivisions"`
	Seed                   uint64  `yaml:"seed"`
}

// Option mutates a Config under construction.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		PeakThresh:             0.04,
		EdgeThresh:             10.0,
		NumIntervals:           3,
		Sigma0:                 1.6,
		SigmaN:                 0.5,
		NumOctaves:             0,
		NNThresh:               0.8,
		MinInlierRatio:         0.001,
		ErrThresh:              5.0,
		NumIter:                500,
		IcosahedronSubdivision: 1,
		Seed:                   1,
	}
}

// New builds a Config from spec.md §6 defaults, applying opts in order.
func New(opts ...Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithPeakThresh(v float32) Option {
	return func(c *Config) { c.PeakThresh = v }
}

func WithEdgeThresh(r float32) Option {
	return func(c *Config) { c.EdgeThresh = r }
}

func WithNumIntervals(n int) Option {
	return func(c *Config) { c.NumIntervals = n }
}

func WithSigma0(v float32) Option {
	return func(c *Config) { c.Sigma0 = v }
}

func WithSigmaN(v float32) Option {
	return func(c *Config) { c.SigmaN = v }
}

func WithNumOctaves(n int) Option {
	return func(c *Config) { c.NumOctaves = n }
}

func WithNNThresh(v float32) Option {
	return func(c *Config) { c.NNThresh = v }
}

func WithMinInlierRatio(v float32) Option {
	return func(c *Config) { c.MinInlierRatio = v }
}

func WithErrThresh(v float32) Option {
	return func(c *Config) { c.ErrThresh = v }
}

func WithNumIter(n int) Option {
	return func(c *Config) { c.NumIter = n }
}

func WithIcosahedronSubdivision(n int) Option {
	return func(c *Config) { c.IcosahedronSubdivision = n }
}

func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// Validate reports ERR_CONFIG for any option outside its documented domain.
func (c Config) Validate() error {
	switch {
	case c.PeakThresh < 0:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.NumIntervals < 1:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.Sigma0 <= 0 || c.SigmaN < 0:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.NNThresh <= 0 || c.NNThresh > 1:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.MinInlierRatio <= 0 || c.MinInlierRatio > 1:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.ErrThresh <= 0:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.NumIter < 1:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	case c.IcosahedronSubdivision < 0:
		return volerrors.New(volerrors.Config, "config.Validate", nil)
	}
	return nil
}

// Load reads a YAML-encoded Config from path, filling any field the file
// omits with the spec.md §6 default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, volerrors.New(volerrors.IORead, "config.Load", err)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, volerrors.New(volerrors.Config, "config.Load", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return volerrors.New(volerrors.IOWrite, "config.Save", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return volerrors.New(volerrors.IOWrite, "config.Save", err)
	}
	return nil
}
