package wavWriter

// Option is the type for a function option
type Option func(*Options)

const (
	DefaultChannels   int     = 2
	DefaultSamplerate float64 = 44100
	DefaultBitDepth   int     = 16
)

// Options contains the parameters for initializing a wav writer.
type Options struct {
	Channels   int
	Samplerate float64
	BitDepth   int
}

// Channels is a functional option to set the amount of channels written
// to the file. Typically this is either Mono (1) or Stereo (2).
func Channels(chs int) Option {
	return func(args *Options) {
		args.Channels = chs
	}
}

// Samplerate is a functional option to set the sampling rate of the file.
// Buffers with a different samplerate will be converted.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// BitDepth is a functional option to set the bit depth with which the audio
// will be written to file. Only 12 and 16 bit are supported.
func BitDepth(b int) Option {
	return func(args *Options) {
		args.BitDepth = b
	}
}
