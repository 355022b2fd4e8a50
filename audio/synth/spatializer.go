package synth

import (
	"github.com/dh1tw/hz/params"
)

// Gains returns the left and right pan gains and the distance attenuation
// for a position. x pans from left (-1) to right (1); z attenuates linearly
// until the source becomes inaudible at z = 10. y is ignored. All gains
// are clamped to [0...1].
func Gains(pos params.Position) (left, right, distance float64) {
	x, z := pos.X(), pos.Z()
	left = clamp(1-(x+1)/2, 0, 1)
	right = clamp((x+1)/2, 0, 1)
	distance = clamp(1-z/10, 0, 1)
	return left, right, distance
}

// Spatialize splits a mono waveform into a left and right signal according
// to the position of its source.
func Spatialize(w []float64, pos params.Position) (l, r []float64) {
	lGain, rGain, dist := Gains(pos)
	lGain *= dist
	rGain *= dist

	l = make([]float64, len(w))
	r = make([]float64, len(w))
	for i, s := range w {
		l[i] = s * lGain
		r[i] = s * rGain
	}
	return l, r
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
