package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/volreg3d/pkg/descriptor"
	"github.com/itohio/volreg3d/pkg/matcher"
)

func store(hs ...[]float32) *descriptor.Store {
	s := &descriptor.Store{}
	for _, h := range hs {
		s.Append(descriptor.Descriptor{H: h})
	}
	return s
}

func TestMatchAllAcceptsClearRatioWinner(t *testing.T) {
	scene := store([]float32{1, 0, 0})
	reference := store([]float32{1, 0, 0}, []float32{0, 1, 0})

	matches := matcher.MatchAll(scene, reference, 0.8, false)
	require.Len(t, matches, 1)
	require.Equal(t, 0, matches[0].SceneIndex)
	require.Equal(t, 0, matches[0].ReferenceIndex)
}

func TestMatchAllRejectsAmbiguousRatio(t *testing.T) {
	scene := store([]float32{1, 0, 0})
	reference := store([]float32{0.9, 0.1, 0}, []float32{0.9, 0.1, 0.001})

	matches := matcher.MatchAll(scene, reference, 0.8, false)
	require.Len(t, matches, 0)
}

func TestMatchAllCrossCheckRejectsNonMutual(t *testing.T) {
	scene := store([]float32{1, 0, 0}, []float32{0.95, 0.05, 0})
	reference := store([]float32{1, 0, 0}, []float32{0, 1, 0})

	matches := matcher.MatchAll(scene, reference, 0.8, true)
	require.Len(t, matches, 1)
	require.Equal(t, 0, matches[0].SceneIndex)
}

func TestMatchAllEmptyReferenceYieldsNoMatches(t *testing.T) {
	scene := store([]float32{1, 0, 0})
	reference := &descriptor.Store{}
	matches := matcher.MatchAll(scene, reference, 0.8, false)
	require.Len(t, matches, 0)
}
