package meter

import "time"

// Option is the type for a function option
type Option func(*Meter)

// StateChanged is a functional option to provide a callback which will
// be executed whenever the output becomes silent (false) or audible (true).
func StateChanged(f func(bool)) Option {
	return func(m *Meter) {
		m.onStateChange = f
	}
}

// LevelsChanged is a functional option to provide a callback which will
// be executed with the levels of every measured audio buffer.
func LevelsChanged(f func(Levels)) Option {
	return func(m *Meter) {
		m.onLevels = f
	}
}

// Threshold is a functional option to set the RMS level below which
// the output is considered silent. The range must be between 0 ... 1.
func Threshold(t float32) Option {
	return func(m *Meter) {
		m.threshold = t
	}
}

// HoldTime is a function option to set the time the level has to stay
// below the threshold before the output is reported silent.
func HoldTime(t time.Duration) Option {
	return func(m *Meter) {
		m.holdTime = t
	}
}
