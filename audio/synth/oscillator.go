package synth

import (
	"math"

	"github.com/dh1tw/hz/params"
)

// Samples returns the amount of frames of a buffer with the given
// duration (seconds) at the given samplerate: round(samplerate*duration).
func Samples(samplerate, duration float64) int {
	n := math.Round(samplerate * duration)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Sine returns the samples s[i] = sin(2*pi*freq*i/samplerate) for
// i = 0 ... Samples(samplerate, duration)-1. The phase starts at zero on
// every call. Zero and negative frequencies produce a valid (degenerate)
// waveform.
func Sine(freq, samplerate, duration float64) []float64 {
	n := Samples(samplerate, duration)
	w := make([]float64, n)
	if n == 0 {
		return w
	}
	step := 2 * math.Pi * freq / samplerate
	for i := range w {
		w[i] = math.Sin(step * float64(i))
	}
	return w
}

// Bank returns the raw waveforms of all tone sources of a snapshot,
// indexed by params.Source.
func Bank(s params.Snapshot, samplerate, duration float64) [params.NumSources][]float64 {
	var waves [params.NumSources][]float64
	for _, src := range params.Sources {
		waves[src] = Sine(s.Tone(src).Frequency, samplerate, duration)
	}
	return waves
}
