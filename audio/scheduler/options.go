package scheduler

import (
	"time"

	"github.com/dh1tw/hz/audio"
)

// Default values of a Scheduler.
const (
	DefaultSamplerate     float64       = 44100
	DefaultBufferDuration time.Duration = time.Millisecond * 100
	DefaultRetryPause     time.Duration = time.Millisecond * 100
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a Scheduler.
type Options struct {
	Samplerate     float64
	BufferDuration time.Duration
	RetryPause     time.Duration
	StateChanged   func(bool)
	OnData         []audio.OnDataCb
}

// Samplerate is a functional option to set the samplerate of the
// generated audio buffers. The samplerate is constant for the lifetime
// of a Scheduler.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// BufferDuration is a functional option to set the play time of each
// generated audio buffer. It bounds the latency between a parameter
// change and its audible effect.
func BufferDuration(d time.Duration) Option {
	return func(args *Options) {
		args.BufferDuration = d
	}
}

// RetryPause is a functional option to set the pause after a failed
// playback attempt.
func RetryPause(d time.Duration) Option {
	return func(args *Options) {
		args.RetryPause = d
	}
}

// StateChanged is a functional option to provide a callback which will
// be executed whenever the playback is started (true) or stopped (false).
func StateChanged(f func(bool)) Option {
	return func(args *Options) {
		args.StateChanged = f
	}
}

// OnData is a functional option to add a callback which will be executed
// with every generated buffer before it is played. It can be used
// several times.
func OnData(cb audio.OnDataCb) Option {
	return func(args *Options) {
		args.OnData = append(args.OnData, cb)
	}
}
