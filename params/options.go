package params

// Default values of a new Store.
const (
	DefaultLeftFrequency   float64 = 210
	DefaultRightFrequency  float64 = 220
	DefaultTopFrequency    float64 = 10
	DefaultVolume          float64 = 0.5
	DefaultTargetFrequency float64 = 20000
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the initial values of a Store.
type Options struct {
	Frequencies [NumSources]float64
	Positions   [NumSources]Position
	Volume      float64
	Mode        Mode
	Linked      bool
	Target      float64
}

// Frequency is a functional option to set the initial frequency (Hz)
// of a tone source.
func Frequency(src Source, f float64) Option {
	return func(args *Options) {
		if src.valid() {
			args.Frequencies[src] = f
		}
	}
}

// InitialPosition is a functional option to set the initial position of a
// tone source.
func InitialPosition(src Source, pos Position) Option {
	return func(args *Options) {
		if src.valid() {
			args.Positions[src] = pos
		}
	}
}

// Volume is a functional option to set the initial volume (0...1).
func Volume(v float64) Option {
	return func(args *Options) {
		args.Volume = v
	}
}

// ChannelMode is a functional option to select stereo or mono output.
func ChannelMode(m Mode) Option {
	return func(args *Options) {
		args.Mode = m
	}
}

// Linked is a functional option to enable / disable the automatic
// recalculation of the beat frequency.
func Linked(enabled bool) Option {
	return func(args *Options) {
		args.Linked = enabled
	}
}

// TargetFrequency is a functional option to set the initial target
// frequency used by AutoSetTones.
func TargetFrequency(f float64) Option {
	return func(args *Options) {
		args.Target = f
	}
}
