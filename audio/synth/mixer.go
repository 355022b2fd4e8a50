package synth

import (
	"math"

	"github.com/dh1tw/hz/audio"
	"github.com/dh1tw/hz/params"
)

// Epsilon is the lower bound of the normalization divisor. It avoids a
// division by zero when all channels are silent.
const Epsilon = 1e-6

// Mix sums the left and right signals of all sources, applies the volume,
// and normalizes the result so that the largest absolute sample of both
// channels becomes 1. In Mono mode both returned channels contain the
// average of the normalized left and right channel. All input signals
// must have the same length.
func Mix(lefts, rights [][]float64, volume float64, mode params.Mode) (l, r []float64) {

	n := 0
	if len(lefts) > 0 {
		n = len(lefts[0])
	}

	l = make([]float64, n)
	r = make([]float64, n)

	for _, sig := range lefts {
		for i := 0; i < n && i < len(sig); i++ {
			l[i] += sig[i]
		}
	}
	for _, sig := range rights {
		for i := 0; i < n && i < len(sig); i++ {
			r[i] += sig[i]
		}
	}

	maxAbs := Epsilon
	for i := 0; i < n; i++ {
		l[i] *= volume
		r[i] *= volume
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(l[i]), math.Abs(r[i])))
	}

	for i := 0; i < n; i++ {
		l[i] /= maxAbs
		r[i] /= maxAbs
	}

	if mode == params.Mono {
		for i := 0; i < n; i++ {
			m := (l[i] + r[i]) / 2
			l[i] = m
			r[i] = m
		}
	}

	return l, r
}

// Interleave packs a left and right channel into interleaved float32
// samples (L, R, L, R, ...).
func Interleave(l, r []float64) []float32 {
	data := make([]float32, 0, len(l)*2)
	for i := range l {
		data = append(data, float32(l[i]), float32(r[i]))
	}
	return data
}

// Generate renders one stereo buffer of the given duration (seconds) from
// a parameter snapshot: oscillator bank -> spatializer -> mixer.
func Generate(s params.Snapshot, samplerate, duration float64) audio.Msg {

	waves := Bank(s, samplerate, duration)

	lefts := make([][]float64, 0, params.NumSources)
	rights := make([][]float64, 0, params.NumSources)

	for _, src := range params.Sources {
		l, r := Spatialize(waves[src], s.Tone(src).Position)
		lefts = append(lefts, l)
		rights = append(rights, r)
	}

	l, r := Mix(lefts, rights, s.Mix.Volume, s.Mix.Mode)

	return audio.Msg{
		Data:       Interleave(l, r),
		Samplerate: samplerate,
		Channels:   2,
		Frames:     len(l),
	}
}
