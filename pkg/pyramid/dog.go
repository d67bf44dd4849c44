package pyramid

// DoG is the Difference-of-Gaussian pyramid: each octave has
// len(Gaussian octave)-1 levels, level s = Gaussian[s+1] - Gaussian[s].
type DoG struct {
	Octaves [][]Level
}

// BuildDoG subtracts adjacent Gaussian levels within each octave. The sigma
// recorded on a DoG level is that of the more blurred (higher-index) input
// level. The detector does not read it; it derives a keypoint's sigma from
// the level index.
func BuildDoG(g *Gaussian) *DoG {
	dog := &DoG{Octaves: make([][]Level, len(g.Octaves))}
	for o, levels := range g.Octaves {
		diffs := make([]Level, len(levels)-1)
		for s := 1; s < len(levels); s++ {
			lo, hi := levels[s-1].Image, levels[s].Image
			out := lo.Clone()
			for i := range out.Data {
				out.Data[i] = hi.Data[i] - lo.Data[i]
			}
			diffs[s-1] = Level{Image: out, Sigma: hi.Sigma}
		}
		dog.Octaves[o] = diffs
	}
	return dog
}
