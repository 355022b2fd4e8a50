package otoWriter

import "time"

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing an oto writer.
type Options struct {
	Channels   int
	Samplerate float64
	Latency    time.Duration
	LowWater   time.Duration
}

// Channels is a functional option to set the amount of output channels
// (1 = mono, 2 = stereo).
func Channels(chs int) Option {
	return func(args *Options) {
		args.Channels = chs
	}
}

// Samplerate is a functional option to set the samplerate of the oto
// context. Buffers with a different samplerate are rejected.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// Latency is a functional option to set the size of the buffer of the
// underlying audio driver.
func Latency(t time.Duration) Option {
	return func(args *Options) {
		args.Latency = t
	}
}

// LowWater is a functional option to set the amount of audio which may
// still be queued when Play returns.
func LowWater(t time.Duration) Option {
	return func(args *Options) {
		args.LowWater = t
	}
}
