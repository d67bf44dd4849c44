// Command volreg3d is a thin CLI driver that loads two volumes already
// decoded to the core's pixel-buffer contract, runs registration.Register,
// and writes the recovered transform in the ASCII format of §6. It performs
// no NIFTI/DICOM decoding itself; that remains an external collaborator.
package main

import (
	"flag"
	"os"

	"github.com/itohio/volreg3d/pkg/core/config"
	"github.com/itohio/volreg3d/pkg/core/logger"
	"github.com/itohio/volreg3d/pkg/registration"
	"github.com/itohio/volreg3d/pkg/transform"
	"github.com/itohio/volreg3d/pkg/volume"
)

func main() {
	srcPath := flag.String("src", "", "path to source .f32 volume")
	refPath := flag.String("ref", "", "path to reference .f32 volume")
	outPath := flag.String("out", "", "path to write the recovered affine transform")
	configPath := flag.String("config", "", "optional YAML config overriding defaults")
	flag.Parse()

	if *srcPath == "" || *refPath == "" || *outPath == "" {
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.New()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Log.Error().Err(err).Msg("failed to load config")
			os.Exit(1)
		}
		cfg = loaded
	}

	src, err := loadVolume(*srcPath)
	if err != nil {
		logger.Log.Error().Err(err).Str("path", *srcPath).Msg("failed to load source volume")
		os.Exit(1)
	}
	ref, err := loadVolume(*refPath)
	if err != nil {
		logger.Log.Error().Err(err).Str("path", *refPath).Msg("failed to load reference volume")
		os.Exit(1)
	}

	result, err := registration.Register(src, ref, cfg)
	if err != nil {
		logger.Log.Error().Err(err).Msg("registration failed")
		os.Exit(1)
	}

	if err := writeTransform(*outPath, result.Transform); err != nil {
		logger.Log.Error().Err(err).Str("path", *outPath).Msg("failed to write transform")
		os.Exit(1)
	}

	logger.Log.Info().
		Int("matches", len(result.Matches)).
		Int("inliers", len(result.Inliers)).
		Msg("registration complete")
}

func loadVolume(path string) (*volume.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return volume.ReadRaw(f)
}

func writeTransform(path string, m *transform.Affine) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return transform.Save(f, m)
}
